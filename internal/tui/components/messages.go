package components

// FilterField names one control of the filter panel.
type FilterField int

// Filter panel controls, in focus order.
const (
	FieldWho FilterField = iota
	FieldCard
	FieldCategory
	FieldMerchant
	FieldPaid
	FieldStartDate
	FieldEndDate
	filterFieldCount
)

// String returns the label shown in the panel.
func (f FilterField) String() string {
	switch f {
	case FieldWho:
		return "Who"
	case FieldCard:
		return "Card"
	case FieldCategory:
		return "Category"
	case FieldMerchant:
		return "Merchant"
	case FieldPaid:
		return "Paid"
	case FieldStartDate:
		return "From"
	case FieldEndDate:
		return "To"
	default:
		return "?"
	}
}

// FilterChangedMsg asks the owner of the filter state to set one criterion.
type FilterChangedMsg struct {
	Value string
	Field FilterField
}

// FilterResetMsg asks the owner of the filter state to clear every criterion.
type FilterResetMsg struct{}
