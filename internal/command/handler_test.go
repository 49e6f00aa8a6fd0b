package command

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/engine"
	"github.com/hammamikhairi/pantrycost/internal/logger"
	"github.com/hammamikhairi/pantrycost/internal/store"
)

// recordingPrinter keeps everything printed, one string per line or row.
type recordingPrinter struct {
	lines  []string
	urgent []string
}

func (p *recordingPrinter) PrintTitle(text string)  { p.lines = append(p.lines, text) }
func (p *recordingPrinter) PrintLine(text string)   { p.lines = append(p.lines, text) }
func (p *recordingPrinter) PrintHint(text string)   { p.lines = append(p.lines, text) }
func (p *recordingPrinter) PrintUrgent(text string) { p.urgent = append(p.urgent, text) }
func (p *recordingPrinter) PrintTable(headers []string, rows [][]string) {
	for _, r := range rows {
		p.lines = append(p.lines, strings.Join(r, " | "))
	}
}

func (p *recordingPrinter) output() string { return strings.Join(p.lines, "\n") }

type countingSaver struct{ flushes int }

func (s *countingSaver) Flush(context.Context) error {
	s.flushes++
	return nil
}

type harness struct {
	t      *testing.T
	parser *KeywordParser
	h      *Handler
	out    *recordingPrinter
	saver  *countingSaver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	out := &recordingPrinter{}
	saver := &countingSaver{}
	eng := engine.New(store.New(log), log)
	return &harness{
		t:      t,
		parser: NewKeywordParser(log),
		h:      NewHandler(eng, out, log, WithSaver(saver)),
		out:    out,
		saver:  saver,
	}
}

func (hs *harness) run(line string) error {
	hs.t.Helper()
	cmd, err := hs.parser.Parse(context.Background(), line)
	require.NoError(hs.t, err)
	return hs.h.Execute(context.Background(), cmd)
}

func (hs *harness) must(lines ...string) {
	hs.t.Helper()
	for _, l := range lines {
		require.NoError(hs.t, hs.run(l), l)
	}
}

func TestCheesecakeSession(t *testing.T) {
	hs := newHarness(t)

	hs.must(
		"set add Market in usd",
		"cover milk, cream cheese, flour",
		"price milk 6 for 1 unit",
		"price cream cheese 8 per kg",
		"price flour 5 per 1000 g",
		"recipe add Cheesecake",
		"ingredients milk, cream cheese, flour",
		"amount milk 2",
		"amount cream cheese 0.5 kg",
		"amount flour 500 g",
		"yield 4",
		"use market",
	)

	out := hs.out.output()
	assert.Contains(t, out, "Flour | 500 g | $2.50")
	assert.Contains(t, out, "Cream cheese | 0.5 kg | $4.00")
	assert.Contains(t, out, "Milk | 2 pc | $12.00")
	assert.Contains(t, out, "Total $18.50, $4.63 each")
	assert.Empty(t, hs.out.urgent)

	assert.Equal(t, Focus{Recipe: "Cheesecake"}, hs.h.Focus())
}

func TestMissingPriceBlocksTotal(t *testing.T) {
	hs := newHarness(t)

	hs.must(
		"recipe add Sweet milk",
		"ingredients milk, sugar",
		"use First",
	)

	require.Len(t, hs.out.urgent, 1)
	assert.Contains(t, hs.out.urgent[0], "1 of 2")
	assert.Contains(t, hs.out.output(), "Sugar | 1 pc | not priced in this set")
}

func TestHugePricesDoNotBreakCosting(t *testing.T) {
	hs := newHarness(t)

	hs.must("set add Market in usd", "cover milk")
	assert.ErrorIs(t, hs.run("price milk 1e300 per 1e-300 unit"), domain.ErrInvalidInput)
	assert.ErrorIs(t, hs.run("price milk 1e400 per unit"), domain.ErrInvalidInput)

	hs.must(
		"price milk 1e300 per 1 unit",
		"recipe add Shake",
		"ingredients milk",
		"amount milk 1e300",
		"use market",
	)

	assert.Contains(t, hs.out.output(), "| n/a")
	require.NotEmpty(t, hs.out.urgent)
	assert.Contains(t, hs.out.urgent[len(hs.out.urgent)-1], "too large")
}

func TestCommandsNeedContext(t *testing.T) {
	hs := newHarness(t)

	assert.ErrorIs(t, hs.run("cover milk"), errNoOpenSet)
	assert.ErrorIs(t, hs.run("price milk 1 per kg"), errNoOpenSet)
	assert.ErrorIs(t, hs.run("amount milk 1"), errNoOpenRecipe)
	assert.ErrorIs(t, hs.run("cost"), errNoOpenRecipe)

	hs.must("set open First")
	assert.ErrorIs(t, hs.run("use First"), errNoOpenRecipe)
}

func TestListIndicesAreOneBased(t *testing.T) {
	hs := newHarness(t)

	hs.must("products", "product rm 1")
	assert.Contains(t, hs.out.output(), "1. Cream cheese")
	assert.Contains(t, hs.out.output(), "Deleted Cream cheese")

	assert.ErrorIs(t, hs.run("product rm 9"), domain.ErrNotFound)

	hs.must("set open 2")
	assert.Equal(t, Focus{PriceSet: "Second"}, hs.h.Focus())
}

func TestProductIcons(t *testing.T) {
	hs := newHarness(t)

	hs.must("product icon cream cheese cake", "products")
	out := hs.out.output()
	assert.Contains(t, out, "Cream cheese now shows [cake].")
	assert.Contains(t, out, "1. Cream cheese [cake]")
	assert.Contains(t, out, "3. Milk [trash]")

	hs.must("set open First")
	assert.Contains(t, hs.out.output(), "trash | Milk | ")

	assert.ErrorIs(t, hs.run("product icon pepper leaf"), domain.ErrNotFound)
}

func TestNumericNamesStayReachable(t *testing.T) {
	hs := newHarness(t)

	hs.must("product add 7", "product add 2")
	hs.must("product rm 7")
	assert.Contains(t, hs.out.output(), "Deleted 7 from")

	// An exact name beats the list position.
	hs.must("product rm 2")
	assert.Contains(t, hs.out.output(), "Deleted 2 from")
	_, err := hs.h.eng.FindProduct("Cream cheese")
	require.NoError(t, err)

	hs.must("product rm 1")
	assert.Contains(t, hs.out.output(), "Deleted Cream cheese from")
}

func TestCurrencyTargetsOpenSet(t *testing.T) {
	hs := newHarness(t)
	st := hs.h.eng.Store()

	hs.must("currency ils")
	require.NotNil(t, st.CurrentCurrency())
	assert.Equal(t, domain.ILS, *st.CurrentCurrency())

	hs.must("set open Second", "currency rub")
	ps, err := st.PriceSet("second")
	require.NoError(t, err)
	require.NotNil(t, ps.Currency)
	assert.Equal(t, domain.RUB, *ps.Currency)
	assert.Equal(t, domain.ILS, *st.CurrentCurrency())

	hs.must("currency none")
	ps, err = st.PriceSet("second")
	require.NoError(t, err)
	assert.Nil(t, ps.Currency)

	assert.ErrorIs(t, hs.run("currency eur"), domain.ErrInvalidInput)
}

func TestDeletingOpenSetClosesIt(t *testing.T) {
	hs := newHarness(t)
	hs.must("set open Third", "set rm Third")
	assert.Equal(t, Focus{}, hs.h.Focus())
}

func TestSaveAndQuit(t *testing.T) {
	hs := newHarness(t)
	hs.must("save")
	assert.Equal(t, 1, hs.saver.flushes)
	assert.ErrorIs(t, hs.run("quit"), ErrQuit)
}

func TestNotifierUsesPrinter(t *testing.T) {
	out := &recordingPrinter{}
	n := NewPrinterNotifier(logger.New(logger.LevelOff, nil), out)

	require.NoError(t, n.Notify(context.Background(), "saved"))
	require.NoError(t, n.NotifyUrgent(context.Background(), "disk full"))
	assert.Equal(t, []string{"saved"}, out.lines)
	assert.Equal(t, []string{"disk full"}, out.urgent)
}
