package tool

import (
	"github.com/cloudwego/eino/schema"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
)

const (
	ToolAlbumsByArtist      = "get_albums_by_artist"
	ToolTracksByArtist      = "get_tracks_by_artist"
	ToolSongsByGenre        = "get_songs_by_genre"
	ToolCheckForSongs       = "check_for_songs"
	ToolInvoicesByDate      = "get_invoices_by_customer_sorted_by_date"
	ToolInvoicesByUnitPrice = "get_invoices_sorted_by_unit_price"
	ToolEmployeeByInvoice   = "get_employee_by_invoice_and_customer"
)

// InfosForAgent returns the tool declarations bound to a specialist's
// model. The music specialist gets catalog lookups, the invoice
// specialist gets purchase lookups; neither sees the other's tools.
func InfosForAgent(agentType contractx.AgentType) []*schema.ToolInfo {
	switch agentType {
	case contractx.AgentTypeMusic:
		return []*schema.ToolInfo{
			{
				Name: ToolAlbumsByArtist,
				Desc: "Get albums by an artist from the music catalog.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"artist": {Type: schema.String, Desc: "Artist name", Required: true},
				}),
			},
			{
				Name: ToolTracksByArtist,
				Desc: "Get songs/tracks by an artist (or similar artists) from the catalog.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"artist": {Type: schema.String, Desc: "Artist name", Required: true},
				}),
			},
			{
				Name: ToolSongsByGenre,
				Desc: "Fetch songs from the catalog that match a specific genre.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"genre": {Type: schema.String, Desc: "Genre name", Required: true},
				}),
			},
			{
				Name: ToolCheckForSongs,
				Desc: "Check if a song exists in the catalog by its name.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"song_title": {Type: schema.String, Desc: "Song title", Required: true},
				}),
			},
		}
	case contractx.AgentTypeInvoice:
		return []*schema.ToolInfo{
			{
				Name: ToolInvoicesByDate,
				Desc: "Look up all invoices for a customer, sorted by date (most recent first).",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"customer_id": {Type: schema.String, Desc: "Verified customer id", Required: true},
				}),
			},
			{
				Name: ToolInvoicesByUnitPrice,
				Desc: "Look up all invoices for a customer, sorted by unit price from highest to lowest.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"customer_id": {Type: schema.String, Desc: "Verified customer id", Required: true},
				}),
			},
			{
				Name: ToolEmployeeByInvoice,
				Desc: "Find the support employee associated with a specific invoice and customer.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"invoice_id":  {Type: schema.String, Desc: "Invoice id", Required: true},
					"customer_id": {Type: schema.String, Desc: "Verified customer id", Required: true},
				}),
			},
		}
	default:
		return nil
	}
}
