package banner

import (
	"fmt"

	"chatd/pkg/config"
)

const banner = `
 ██████╗██╗  ██╗ █████╗ ████████╗██████╗
██╔════╝██║  ██║██╔══██╗╚══██╔══╝██╔══██╗
██║     ███████║███████║   ██║   ██║  ██║
██║     ██╔══██║██╔══██║   ██║   ██║  ██║
╚██████╗██║  ██║██║  ██║   ██║   ██████╔╝
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═════╝
`

// PrintWithEff prints the banner using an EffectiveConfigResult which
// provides runtime context (addr, db path, config source).
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if eff.Source != "" {
		fmt.Printf("Config sources: %s\n", eff.Source)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/users/sync                     - Upsert caller profile")
	fmt.Println("GET  /v1/users?search=<q>               - User directory")
	fmt.Println("POST /v1/conversations/direct           - Create-or-get direct conversation")
	fmt.Println("GET  /v1/conversations                  - Conversation list for caller")
	fmt.Println("POST /v1/conversations/{id}/messages    - Send a message")
	fmt.Println("POST /v1/messages/{id}/reactions        - Toggle a reaction")
	fmt.Println("\n== Production? =================================================")
	fmt.Println("Set a proper storage path (--db)")
	fmt.Println("Configure backend API keys for identity signing")
}
