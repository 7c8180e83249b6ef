package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	"github.com/lyrebird-labs/concierge/agent/musicdb"
)

// Gateway executes tools against the music store database. Execute never
// raises past this boundary: lookup failures, bad arguments, and unknown
// tools all come back as descriptive text for the model to react to.
type Gateway struct {
	db *musicdb.DB
}

func NewGateway(db *musicdb.DB) *Gateway {
	return &Gateway{db: db}
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func (g *Gateway) Execute(ctx context.Context, tool string, args map[string]any) (result string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", tool).Any("panic", r).Msg("tool execution panicked")
			result = fmt.Sprintf("Error executing %s. Please try again.", tool)
		}
	}()

	var err error
	switch tool {
	case ToolAlbumsByArtist:
		result, err = g.db.AlbumsByArtist(ctx, stringArg(args, "artist"))
	case ToolTracksByArtist:
		result, err = g.db.TracksByArtist(ctx, stringArg(args, "artist"))
	case ToolSongsByGenre:
		result, err = g.db.SongsByGenre(ctx, stringArg(args, "genre"))
	case ToolCheckForSongs:
		result, err = g.db.SearchSongs(ctx, stringArg(args, "song_title"))
	case ToolInvoicesByDate:
		result, err = g.db.InvoicesByCustomer(ctx, stringArg(args, "customer_id"))
	case ToolInvoicesByUnitPrice:
		result, err = g.db.InvoicesByUnitPrice(ctx, stringArg(args, "customer_id"))
	case ToolEmployeeByInvoice:
		result, err = g.db.SupportRepForInvoice(ctx,
			stringArg(args, "invoice_id"), stringArg(args, "customer_id"))
	default:
		return fmt.Sprintf("Unknown tool: %s", tool)
	}

	if err != nil {
		log.Error().Err(err).Str("tool", tool).Msg("tool execution failed")
		return fmt.Sprintf("Error executing %s. Please try again.", tool)
	}
	return result
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	return s
}
