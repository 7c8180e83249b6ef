package tool

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	"github.com/lyrebird-labs/concierge/agent/musicdb"
)

func seededGateway(t *testing.T) *Gateway {
	t.Helper()

	db, err := musicdb.Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return NewGateway(db)
}

func TestGatewayExecutesCatalogTool(t *testing.T) {
	t.Parallel()

	g := seededGateway(t)
	got := g.Execute(context.Background(), ToolAlbumsByArtist, map[string]any{"artist": "AC/DC"})
	if !strings.Contains(got, "AC/DC") {
		t.Fatalf("Execute(%s) = %q, want AC/DC albums", ToolAlbumsByArtist, got)
	}
}

func TestGatewayExecutesInvoiceTool(t *testing.T) {
	t.Parallel()

	g := seededGateway(t)
	got := g.Execute(context.Background(), ToolInvoicesByDate, map[string]any{"customer_id": "1"})
	if !strings.Contains(got, "Invoice:") {
		t.Fatalf("Execute(%s) = %q, want invoice lines", ToolInvoicesByDate, got)
	}
}

func TestGatewayCoercesNumericArgs(t *testing.T) {
	t.Parallel()

	g := seededGateway(t)
	// Models frequently send ids as numbers; the gateway stringifies them.
	got := g.Execute(context.Background(), ToolInvoicesByDate, map[string]any{"customer_id": float64(1)})
	if !strings.Contains(got, "Invoice:") {
		t.Fatalf("Execute with numeric arg = %q, want invoice lines", got)
	}
}

func TestGatewayUnknownTool(t *testing.T) {
	t.Parallel()

	g := seededGateway(t)
	got := g.Execute(context.Background(), "open_cash_drawer", nil)
	if got != "Unknown tool: open_cash_drawer" {
		t.Fatalf("Execute(unknown) = %q", got)
	}
}

func TestGatewayMissingArgsReturnText(t *testing.T) {
	t.Parallel()

	g := seededGateway(t)
	got := g.Execute(context.Background(), ToolCheckForSongs, nil)
	if got == "" {
		t.Fatal("missing args should still produce text")
	}
}

func TestInfosForAgentSeparation(t *testing.T) {
	t.Parallel()

	musicTools := InfosForAgent(contractx.AgentTypeMusic)
	invoiceTools := InfosForAgent(contractx.AgentTypeInvoice)
	if len(musicTools) != 4 {
		t.Fatalf("music tools = %d, want 4", len(musicTools))
	}
	if len(invoiceTools) != 3 {
		t.Fatalf("invoice tools = %d, want 3", len(invoiceTools))
	}

	musicNames := map[string]bool{}
	for _, info := range musicTools {
		musicNames[info.Name] = true
	}
	for _, info := range invoiceTools {
		if musicNames[info.Name] {
			t.Fatalf("tool %s declared for both specialists", info.Name)
		}
	}

	if got := InfosForAgent(contractx.AgentTypeSupervisor); got != nil {
		t.Fatalf("supervisor should have no tools, got %d", len(got))
	}
}
