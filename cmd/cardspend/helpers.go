package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/cardspend/internal/api"
	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/config"
	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/Veraticus/cardspend/internal/storage"
	"github.com/Veraticus/cardspend/internal/store"
	"github.com/spf13/cobra"
)

// session bundles what most commands need: the resolved config, the
// service client and the local preference store.
type session struct {
	cfg    *config.Config
	client *api.Client
	prefs  service.PreferenceStore
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetry(cfg.RetryOptions()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	prefs, err := storage.Open(ctx, cfg.State.Backend, cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}

	slog.Debug("Session opened",
		"base_url", cfg.API.BaseURL,
		"state_backend", cfg.State.Backend,
		"state_path", cfg.State.Path)

	return &session{cfg: cfg, client: client, prefs: prefs}, nil
}

func (s *session) Close() {
	if err := s.prefs.Close(); err != nil {
		slog.Warn("Failed to close preferences", "error", err)
	}
}

// fetchStore loads every transaction from svc into a fresh store.
func fetchStore(ctx context.Context, svc service.TransactionService) (*store.Store, error) {
	txs, err := svc.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	st := store.New()
	st.Load(txs)
	return st, nil
}

// fetchRoster returns the service's roster, or fallback when it is
// unavailable or empty.
func fetchRoster(ctx context.Context, svc service.TransactionService, fallback []model.Person) []model.Person {
	people, err := svc.ListPeople(ctx)
	if err != nil {
		slog.Warn("Failed to load roster, using fallback", "error", err, "fallback", model.Names(fallback))
		return fallback
	}
	if len(people) == 0 {
		return fallback
	}
	return people
}

// findTransaction looks id up in st.
func findTransaction(st *store.Store, id string) (model.Transaction, error) {
	tx, ok := st.Get(model.ID(strings.TrimSpace(id)))
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %q not found", id)
	}
	return tx, nil
}

// filterFlags are the criteria flags shared by list and export-sheets.
type filterFlags struct {
	who      string
	card     string
	category string
	merchant string
	paid     string
	from     string
	to       string
	all      bool
	save     bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.who, "who", "", "only transactions by this person")
	cmd.Flags().StringVar(&f.card, "card", "", "only transactions on this card")
	cmd.Flags().StringVar(&f.category, "category", "", "only transactions in this category")
	cmd.Flags().StringVar(&f.merchant, "merchant", "", "only transactions at this merchant")
	cmd.Flags().StringVar(&f.paid, "paid", "", "payment status (all, paid, unpaid)")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest date, inclusive (YYYY-MM-DD or MM/DD/YYYY)")
	cmd.Flags().StringVar(&f.to, "to", "", "latest date, inclusive (YYYY-MM-DD or MM/DD/YYYY)")
	cmd.Flags().BoolVar(&f.all, "all", false, "ignore saved filters")
	cmd.Flags().BoolVar(&f.save, "save", false, "remember these filters for next time")
}

// resolve starts from the saved filters (unless --all) and applies the
// flags given on the command line. With --save the result is persisted.
// Values not among opts produce a warning with the closest match.
func (f *filterFlags) resolve(ctx context.Context, cmd *cobra.Command, prefs service.PreferenceStore, opts model.FilterOptions) (model.FilterCriteria, error) {
	saved := filter.New(ctx, prefs)

	target := saved
	if !f.save {
		target = filter.New(ctx, nil)
		target.Apply(ctx, saved.Criteria())
	}
	if f.all {
		target.Reset(ctx)
	}

	changed := cmd.Flags().Changed
	selectors := []struct {
		flag    string
		value   string
		options []string
		set     func(context.Context, string)
	}{
		{"who", f.who, opts.Who, target.SetWho},
		{"card", f.card, opts.Card, target.SetCard},
		{"category", f.category, opts.Category, target.SetCategory},
		{"merchant", f.merchant, opts.Merchant, target.SetMerchant},
	}
	for _, s := range selectors {
		if !changed(s.flag) {
			continue
		}
		warnUnknown(cmd, s.flag, s.value, s.options)
		s.set(ctx, s.value)
	}

	if changed("paid") {
		paid, err := model.ParsePaidFilter(f.paid)
		if err != nil {
			return model.FilterCriteria{}, err
		}
		target.SetPaid(ctx, paid)
	}

	for _, d := range []struct {
		flag  string
		value string
		set   func(context.Context, string)
	}{
		{"from", f.from, target.SetStartDate},
		{"to", f.to, target.SetEndDate},
	} {
		if !changed(d.flag) {
			continue
		}
		key, err := dateFlag(d.flag, d.value)
		if err != nil {
			return model.FilterCriteria{}, err
		}
		d.set(ctx, key)
	}

	return target.Criteria(), nil
}

// dateFlag normalizes a date flag. Blank clears the bound.
func dateFlag(name, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	key := datekey.Normalize(value)
	if !datekey.IsCanonical(key) {
		return "", fmt.Errorf("invalid --%s date %q: want YYYY-MM-DD or MM/DD/YYYY", name, value)
	}
	return key, nil
}

func warnUnknown(cmd *cobra.Command, flag, value string, options []string) {
	if model.IsAll(value) || len(options) == 0 {
		return
	}
	for _, o := range options {
		if o == value {
			return
		}
	}
	msg := fmt.Sprintf("No transactions have %s %q.", flag, value)
	if s := filter.Suggest(value, options); s != "" {
		msg += fmt.Sprintf(" Did you mean %q?", s)
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(msg))
}

// draftFlags are the record fields shared by add and edit.
type draftFlags struct {
	date     string
	card     string
	who      string
	category string
	merchant string
	amount   string
	cashback string
	notes    string
	paid     bool
}

var draftFlagNames = []string{"date", "card", "who", "category", "merchant", "amount", "cashback", "notes", "paid"}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD or MM/DD/YYYY)")
	cmd.Flags().StringVar(&f.card, "card", "", "card name")
	cmd.Flags().StringVar(&f.who, "who", "", "person responsible")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.merchant, "merchant", "", "merchant")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount; negative for deposits")
	cmd.Flags().StringVar(&f.cashback, "cashback", "", `cashback as a percentage ("3") or ratio ("0.03")`)
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&f.paid, "paid", false, "mark as paid")
}

// given reports whether at least one field flag was given.
func (f *draftFlags) given(cmd *cobra.Command) bool {
	for _, name := range draftFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply overwrites the fields of d whose flags were given.
func (f *draftFlags) apply(cmd *cobra.Command, d edit.DraftForm) edit.DraftForm {
	changed := cmd.Flags().Changed
	if changed("date") {
		d.Date = f.date
		if key := datekey.Normalize(f.date); datekey.IsCanonical(key) {
			d.Date = key
		}
	}
	if changed("card") {
		d.Card = f.card
	}
	if changed("who") {
		d.Who = f.who
	}
	if changed("category") {
		d.Category = f.category
	}
	if changed("merchant") {
		d.Merchant = f.merchant
	}
	if changed("amount") {
		d.Amount = f.amount
	}
	if changed("cashback") {
		d.CashbackPercent = f.cashback
	}
	if changed("notes") {
		d.Notes = f.notes
	}
	if changed("paid") {
		d.Paid = f.paid
	}
	return d
}
