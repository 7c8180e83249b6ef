// Package conversationnode holds the node functions of the support
// conversation graph. Each node mutates the shared conversation state
// and reports whether the turn proceeds or suspends for user input.
package conversationnode

const (
	NodeVerifyInfo   = "verify_info"
	NodeHumanInput   = "human_input"
	NodeLoadMemory   = "load_memory"
	NodeSupervisor   = "supervisor"
	NodeMusic        = "music_specialist"
	NodeInvoice      = "invoice_specialist"
	NodeCreateMemory = "create_memory"
)
