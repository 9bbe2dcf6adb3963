// Package ofx turns OFX/QFX statement downloads into transaction records
// ready to be created on the server.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// SGML exports sometimes drop the closing bracket of a bare tag line.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	// Card processors prefix the merchant with how the card was used.
	processorPrefixRegex = regexp.MustCompile(`(?i)^(POS PURCHASE|PURCHASE AUTHORIZED ON|DEBIT CARD PURCHASE|DEBIT PURCHASE|ACH DEBIT|CHECK CARD|VISA PURCHASE|MC PURCHASE)\s+`)
	postedDateRegex      = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

// Names that say nothing about the merchant; the memo is used instead.
var genericNames = []string{"DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE"}

// Defaults fills the fields a statement does not carry.
type Defaults struct {
	Card         string
	Who          string
	CashbackRate decimal.NullDecimal
}

// Result is what one statement file yields.
type Result struct {
	// Accounts are the statement account ids, sorted.
	Accounts     []string
	Transactions []model.Transaction
	// Skipped counts entries whose FITID repeated an earlier one.
	Skipped int
}

// Parser reads OFX/QFX statements.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// statement is one account's entries, bank or credit card.
type statement struct {
	account string
	entries []ofxgo.Transaction
}

// Parse reads a statement file into records without ids.
func (p *Parser) Parse(ctx context.Context, r io.Reader, defaults Defaults) (*Result, error) {
	resp, err := decode(r)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	seen := make(map[ofxgo.String]bool)
	for _, st := range statements(resp) {
		if st.account != "" && !slices.Contains(res.Accounts, st.account) {
			res.Accounts = append(res.Accounts, st.account)
		}
		for _, entry := range st.entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if entry.FiTID != "" {
				if seen[entry.FiTID] {
					res.Skipped++
					continue
				}
				seen[entry.FiTID] = true
			}
			res.Transactions = append(res.Transactions, toRecord(entry, defaults))
		}
	}
	slices.Sort(res.Accounts)

	slog.Debug("Parsed OFX statement",
		"accounts", res.Accounts,
		"transactions", len(res.Transactions),
		"skipped", res.Skipped)
	return res, nil
}

// clean fixes formatting that ofxgo rejects but banks produce anyway.
func clean(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

func decode(r io.Reader) (*ofxgo.Response, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(clean(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

func statements(resp *ofxgo.Response) []statement {
	var out []statement
	for _, msg := range resp.Bank {
		if st, ok := msg.(*ofxgo.StatementResponse); ok {
			out = append(out, statement{account: string(st.BankAcctFrom.AcctID), entries: entries(st.BankTranList)})
		}
	}
	for _, msg := range resp.CreditCard {
		if st, ok := msg.(*ofxgo.CCStatementResponse); ok {
			out = append(out, statement{account: string(st.CCAcctFrom.AcctID), entries: entries(st.BankTranList)})
		}
	}
	return out
}

func entries(list *ofxgo.TransactionList) []ofxgo.Transaction {
	if list == nil {
		return nil
	}
	return list.Transactions
}

// toRecord maps a statement entry onto a record. OFX signs debits
// negative; records store spending as positive.
func toRecord(entry ofxgo.Transaction, defaults Defaults) model.Transaction {
	tx := model.Transaction{
		Date:         datekey.FromTime(entry.DtPosted.Time),
		Card:         defaults.Card,
		Who:          defaults.Who,
		Category:     category(entry),
		Merchant:     merchant(entry),
		Amount:       decimal.NewFromBigRat(&entry.TrnAmt.Rat, 2).Neg(),
		CashbackRate: defaults.CashbackRate,
	}

	memo := strings.TrimSpace(string(entry.Memo))
	switch {
	case entry.CheckNum != "":
		tx.Notes = "Check " + string(entry.CheckNum)
	case memo != "" && memo != tx.Merchant:
		tx.Notes = memo
	}
	return tx
}

func category(entry ofxgo.Transaction) string {
	switch entry.TrnType {
	case ofxgo.TrnTypeInt:
		return "Interest"
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		return "Fees"
	case ofxgo.TrnTypeATM:
		return "Cash"
	}
	return ""
}

// merchant prefers PAYEE, then NAME unless it is generic, then MEMO.
func merchant(entry ofxgo.Transaction) string {
	if entry.Payee != nil && entry.Payee.Name != "" {
		return string(entry.Payee.Name)
	}

	name := strings.TrimSpace(string(entry.Name))
	if entry.Memo != "" && slices.Contains(genericNames, strings.ToUpper(name)) {
		name = strings.TrimSpace(string(entry.Memo))
	}
	name = processorPrefixRegex.ReplaceAllString(name, "")
	return postedDateRegex.ReplaceAllString(name, "")
}
