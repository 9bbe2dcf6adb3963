package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/ofx"
	"github.com/Veraticus/cardspend/internal/sheets"
	"github.com/Veraticus/cardspend/internal/storage"
	"github.com/Veraticus/cardspend/internal/store"
	"github.com/Veraticus/cardspend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func householdStore() *store.Store {
	st := store.New()
	st.Load(testutil.Household())
	return st
}

func TestSaveEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the echoed record", func(t *testing.T) {
		svc := testutil.NewFakeService(testutil.Household()...)
		svc.Echo = func(tx model.Transaction) model.Transaction {
			tx.Merchant = "GROCER INC"
			return tx
		}
		st := householdStore()
		tx, _ := st.Get("1")

		d := edit.NewDraft(tx)
		d.Amount = "41.00"
		d.Paid = true

		updated, err := saveEdit(ctx, svc, st, tx, d, 0)
		require.NoError(t, err)
		assert.Equal(t, "GROCER INC", updated.Merchant)
		assert.True(t, updated.Paid)
		assert.True(t, decimal.RequireFromString("41").Equal(updated.Amount))

		stored, _ := st.Get("1")
		assert.Equal(t, updated, stored)
	})

	t.Run("invalid amount never reaches the service", func(t *testing.T) {
		svc := testutil.NewFakeService(testutil.Household()...)
		st := householdStore()
		tx, _ := st.Get("1")

		d := edit.NewDraft(tx)
		d.Amount = "twelve"

		_, err := saveEdit(ctx, svc, st, tx, d, 0)
		require.EqualError(t, err, "Amount must be a number.")
		assert.Empty(t, svc.Calls())
	})

	t.Run("service failure leaves the store alone", func(t *testing.T) {
		svc := testutil.NewFakeService(testutil.Household()...)
		svc.UpdateErr = &common.RequestError{Op: "update", StatusCode: 500}
		st := householdStore()
		tx, _ := st.Get("1")

		d := edit.NewDraft(tx)
		d.Amount = "99"

		_, err := saveEdit(ctx, svc, st, tx, d, 0)
		require.EqualError(t, err, "Failed to update transaction (HTTP 500).")
		stored, _ := st.Get("1")
		assert.Equal(t, tx, stored)
	})
}

func TestRemoveTransaction(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		confirm     func(string) bool
		deleteErr   error
		wantDeleted bool
		wantErr     string
		wantLen     int
	}{
		{
			name:        "confirmed",
			confirm:     func(string) bool { return true },
			wantDeleted: true,
			wantLen:     2,
		},
		{
			name:    "declined",
			confirm: func(string) bool { return false },
			wantLen: 3,
		},
		{
			name:      "service failure",
			confirm:   func(string) bool { return true },
			deleteErr: &common.TransportError{Op: "delete", Err: errors.New("connection reset")},
			wantErr:   "Network error while trying to delete transaction.",
			wantLen:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService(testutil.Household()...)
			svc.DeleteErr = tt.deleteErr
			st := householdStore()
			tx, _ := st.Get("2")

			var prompts []string
			confirm := func(p string) bool {
				prompts = append(prompts, p)
				return tt.confirm(p)
			}

			deleted, err := removeTransaction(ctx, svc, st, tx, confirm, 0)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantDeleted, deleted)
			assert.Equal(t, []string{edit.MsgConfirmDelete}, prompts)
			assert.Equal(t, tt.wantLen, st.Len())
		})
	}
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()

	created, err := createTransaction(ctx, svc, edit.DraftForm{
		Date:            "2024-03-05",
		Card:            "Amex",
		Who:             "mom",
		Amount:          "12.50",
		CashbackPercent: "3",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, decimal.RequireFromString("0.03").Equal(created.CashbackRate.Decimal))

	_, err = createTransaction(ctx, svc, edit.DraftForm{Amount: "5"})
	require.Error(t, err)
	assert.Equal(t, "Invalid card: required.", common.UserMessage("add transaction", err))
	assert.Len(t, svc.Records(), 1)
}

type countingBar struct{ n int }

func (b *countingBar) Add(n int) error {
	b.n += n
	return nil
}

func TestImportRecords(t *testing.T) {
	records := testutil.NewBuilder().
		Add("2024-01-10", "Visa", "me", "Amazon", "45.99").
		Add("2024-01-15", "Visa", "me", "Netflix", "15").
		Build()
	for i := range records {
		records[i].ID = ""
	}

	t.Run("creates every record", func(t *testing.T) {
		svc := testutil.NewFakeService()
		bar := &countingBar{}
		var created atomic.Int64

		res := importRecords(context.Background(), svc, records, bar, &created)
		assert.Equal(t, importResult{created: 2}, res)
		assert.Equal(t, int64(2), created.Load())
		assert.Equal(t, 2, bar.n)
		assert.Len(t, svc.Records(), 2)
	})

	t.Run("counts failures", func(t *testing.T) {
		svc := testutil.NewFakeService()
		svc.CreateErr = &common.RequestError{Op: "create", StatusCode: 422}
		var created atomic.Int64

		res := importRecords(context.Background(), svc, records, &countingBar{}, &created)
		assert.Equal(t, importResult{failed: 2}, res)
	})

	t.Run("stops when canceled", func(t *testing.T) {
		svc := testutil.NewFakeService()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var created atomic.Int64

		res := importRecords(ctx, svc, records, &countingBar{}, &created)
		assert.Equal(t, importResult{}, res)
		assert.Empty(t, svc.Calls())
	})
}

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "visa.qfx")
	bad := filepath.Join(dir, "broken.qfx")
	require.NoError(t, os.WriteFile(good, []byte(statementOFX), 0600))
	require.NoError(t, os.WriteFile(bad, []byte("not ofx"), 0600))

	files, err := expandFiles([]string{filepath.Join(dir, "*.qfx")})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	records, err := parseFiles(context.Background(), files, ofx.Defaults{Card: "Visa", Who: "dad"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "Visa", r.Card)
		assert.Equal(t, "dad", r.Who)
		assert.Empty(t, r.ID)
	}

	var out bytes.Buffer
	require.NoError(t, previewImport(&out, records))
	assert.Contains(t, out.String(), "Dry run: 2 transactions would be created")

	_, err = expandFiles([]string{filepath.Join(dir, "*.ofx")})
	assert.EqualError(t, err, "no files found to import")
}

func TestExportReport(t *testing.T) {
	ctx := context.Background()
	st := householdStore()
	criteria := model.NoFilter()
	criteria.Card = "Amex"

	t.Run("writes the filtered view", func(t *testing.T) {
		svc := testutil.NewFakeService(testutil.Household()...)
		svc.Summary = model.SummaryByCard{"Amex": {Total: decimal.NewFromInt(30)}}
		w := sheets.NewMockWriter()

		id, err := exportReport(ctx, svc, st, criteria, w)
		require.NoError(t, err)
		assert.Equal(t, "mock-spreadsheet", id)

		calls := w.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, 2, calls[0].View.Matched)
		assert.Equal(t, 3, calls[0].View.Total)
		assert.Equal(t, criteria, calls[0].Criteria)
		assert.Contains(t, calls[0].Summary, "Amex")
	})

	t.Run("summary failure is tolerated", func(t *testing.T) {
		svc := testutil.NewFakeService(testutil.Household()...)
		svc.SummaryErr = errors.New("down")
		w := sheets.NewMockWriter()

		_, err := exportReport(ctx, svc, st, criteria, w)
		require.NoError(t, err)
		assert.Nil(t, w.Calls()[0].Summary)
	})

	t.Run("writer failure", func(t *testing.T) {
		svc := testutil.NewFakeService(testutil.Household()...)
		w := sheets.NewMockWriter()
		w.Err = errors.New("quota exceeded")

		_, err := exportReport(ctx, svc, st, criteria, w)
		assert.EqualError(t, err, "failed to export to google sheets: quota exceeded")
	})
}

func flagCommand(t *testing.T, register func(*cobra.Command), args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	register(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestFilterFlagsResolve(t *testing.T) {
	ctx := context.Background()
	opts := filter.Options(testutil.Household(), model.DefaultRoster())

	tests := []struct {
		name    string
		saved   func(*filter.State)
		args    []string
		want    func(*model.FilterCriteria)
		wantErr string
	}{
		{
			name: "saved filters apply",
			saved: func(s *filter.State) {
				s.SetWho(ctx, "mom")
			},
			want: func(c *model.FilterCriteria) { c.Who = "mom" },
		},
		{
			name: "flags narrow saved filters",
			saved: func(s *filter.State) {
				s.SetWho(ctx, "mom")
			},
			args: []string{"--card", "Amex", "--paid", "unpaid"},
			want: func(c *model.FilterCriteria) {
				c.Who = "mom"
				c.Card = "Amex"
				c.Paid = model.UnpaidOnly
			},
		},
		{
			name: "all ignores saved filters",
			saved: func(s *filter.State) {
				s.SetWho(ctx, "mom")
			},
			args: []string{"--all", "--from", "3/1/2024"},
			want: func(c *model.FilterCriteria) { c.StartDate = "2024-03-01" },
		},
		{
			name:    "bad date",
			args:    []string{"--to", "someday"},
			wantErr: `invalid --to date "someday": want YYYY-MM-DD or MM/DD/YYYY`,
		},
		{
			name:    "bad paid value",
			args:    []string{"--paid", "maybe"},
			wantErr: `invalid paid filter "maybe": want all, paid, or unpaid`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := testutil.SetupPreferences(t, storage.BackendSQLite)
			if tt.saved != nil {
				tt.saved(filter.New(ctx, prefs))
			}

			var f filterFlags
			cmd := flagCommand(t, f.register, tt.args...)
			got, err := f.resolve(ctx, cmd, prefs, opts)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			want := model.NoFilter()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestFilterFlagsSave(t *testing.T) {
	ctx := context.Background()
	prefs := testutil.SetupPreferences(t, storage.BackendDiskv)
	opts := filter.Options(testutil.Household(), model.DefaultRoster())

	var f filterFlags
	cmd := flagCommand(t, f.register, "--card", "Visa")
	_, err := f.resolve(ctx, cmd, prefs, opts)
	require.NoError(t, err)
	assert.Equal(t, model.All, filter.New(ctx, prefs).Criteria().Card)

	var g filterFlags
	cmd = flagCommand(t, g.register, "--card", "Visa", "--save")
	_, err = g.resolve(ctx, cmd, prefs, opts)
	require.NoError(t, err)
	assert.Equal(t, "Visa", filter.New(ctx, prefs).Criteria().Card)
}

func TestWarnUnknown(t *testing.T) {
	var errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&errOut)

	warnUnknown(cmd, "card", "Amx", []string{model.All, "Amex", "Visa"})
	assert.Contains(t, errOut.String(), `Did you mean "Amex"?`)

	errOut.Reset()
	warnUnknown(cmd, "card", "Visa", []string{model.All, "Amex", "Visa"})
	assert.Empty(t, errOut.String())
}

func TestDraftFlagsApply(t *testing.T) {
	base := edit.NewDraft(testutil.Household()[0])

	var f draftFlags
	cmd := flagCommand(t, f.register)
	assert.False(t, f.given(cmd))
	assert.Equal(t, base, f.apply(cmd, base))

	var g draftFlags
	cmd = flagCommand(t, g.register, "--date", "3/9/2024", "--paid", "--notes", "")
	assert.True(t, g.given(cmd))

	got := g.apply(cmd, base)
	assert.Equal(t, "2024-03-09", got.Date)
	assert.True(t, got.Paid)
	assert.Empty(t, got.Notes)
	assert.Equal(t, base.Amount, got.Amount)
}
