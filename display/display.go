package display

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/voyage-finance/llamapay-cli/contracts/llama"
	"github.com/voyage-finance/llamapay-cli/models"
	"golang.org/x/exp/slices"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02 15:04:05"

var (
	streamHeaders       = []string{"stream_id", "llamapay contract", "active", "token address", "token symbol", "payer", "payee", "amount per sec", "created"}
	basicHistoryHeaders = []string{"index", "tx_hash", "event_type", "created"}
	historyHeaders      = []string{"index", "tx_hash", "event_type", "amount_without_decimals", "created"}
	tokenHeaders        = []string{"symbol", "name", "decimals", "token address", "llamapay contract"}
)

// Printer renders subgraph records as console tables.
type Printer struct {
	out io.Writer
	now func() time.Time
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, now: time.Now}
}

// Banner prints a section title.
func (p *Printer) Banner(title string) {
	color.New(color.FgCyan).Fprintf(p.out, "\n==================== %s ========================\n\n", title)
}

// Streams prints one row per stream. symbols is index-aligned with streams.
func (p *Printer) Streams(streams []models.Stream, symbols []string) {
	if len(streams) == 0 {
		fmt.Fprintln(p.out, "No streams are available.")
		return
	}
	p.Banner("Query streams")
	table := p.table(streamHeaders)
	for i, s := range streams {
		symbol := ""
		if i < len(symbols) {
			symbol = symbols[i]
		}
		table.Append([]string{
			s.StreamID,
			Truncate(s.Contract.Address),
			strconv.FormatBool(s.Active),
			Truncate(s.Token.Address),
			symbol,
			Truncate(s.Payer.ID),
			Truncate(s.Payee.ID),
			formatRate(s.AmountPerSec),
			p.formatDate(s.Created()),
		})
	}
	table.Render()
}

func (p *Printer) BasicHistory(events []models.HistoryEvent) {
	if len(events) == 0 {
		fmt.Fprintln(p.out, "No events are available.")
		return
	}
	p.Banner("Query historical events")
	table := p.table(basicHistoryHeaders)
	for i, e := range events {
		table.Append([]string{strconv.Itoa(i), e.TxHash, e.EventType, p.formatDate(e.Created())})
	}
	table.Render()
}

// History is BasicHistory plus each event's amount in token units.
func (p *Printer) History(events []models.HistoryEvent) {
	if len(events) == 0 {
		fmt.Fprintln(p.out, "No events are available.")
		return
	}
	p.Banner("Query historical events")
	table := p.table(historyHeaders)
	for i, e := range events {
		table.Append([]string{strconv.Itoa(i), e.TxHash, e.EventType, formatAmount(e), p.formatDate(e.Created())})
	}
	table.Render()
}

// Tokens lists the tokens with a LlamaPay contract, ordered by symbol.
func (p *Printer) Tokens(tokens []models.Token) {
	if len(tokens) == 0 {
		fmt.Fprintln(p.out, "No tokens are available.")
		return
	}
	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b models.Token) bool {
		return strings.ToLower(a.Symbol) < strings.ToLower(b.Symbol)
	})
	p.Banner("Query tokens")
	table := p.table(tokenHeaders)
	for _, t := range sorted {
		table.Append([]string{t.Symbol, t.Name, strconv.Itoa(int(t.Decimals)), t.Address, t.Contract.ID})
	}
	table.Render()
}

func (p *Printer) table(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// formatDate renders t as local time followed by how long ago it was.
func (p *Printer) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", t.Format(dateLayout), humanize.RelTime(t, p.now(), "ago", "from now"))
}

// Truncate shortens addresses and hashes to 0x1234...abcd. Anything else is
// returned unchanged.
func Truncate(s string) string {
	if !isAddressOrHash(s) {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

func isAddressOrHash(s string) bool {
	return strings.HasPrefix(s, "0x") && (common.IsHexAddress(s) || len(s) == 66)
}

func formatRate(amountPerSec string) string {
	rate, ok := new(big.Int).SetString(amountPerSec, 10)
	if !ok {
		return amountPerSec
	}
	return llama.FormatUnits(rate, llama.Decimals, llama.Decimals)
}

func formatAmount(e models.HistoryEvent) string {
	if e.Amount == nil {
		return ""
	}
	amount, ok := new(big.Int).SetString(*e.Amount, 10)
	if !ok || e.Token == nil {
		return *e.Amount
	}
	return llama.FormatUnits(amount, e.Token.Decimals, 2)
}
