// Package agenthttp serves an agent's state over HTTP so the withdrawal can
// be inspected while it is being worked.
package agenthttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/stellar/go/keypair"
	"github.com/stellar/transfer-sdk/agent"
)

func New(a *agent.Agent) http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/", handleSnapshot(a))
	return cors.Default().Handler(m)
}

func handleSnapshot(a *agent.Agent) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		type agentConfig struct {
			NetworkPassphrase string
			AccountKey        *keypair.FromAddress
			AccountSigner     *keypair.FromAddress
			PollInterval      time.Duration
		}
		c := a.Config()
		v := struct {
			Config   agentConfig
			Snapshot agent.Snapshot
		}{
			Config: agentConfig{
				NetworkPassphrase: c.NetworkPassphrase,
				AccountKey:        c.AccountKey,
				AccountSigner:     c.AccountSigner.FromAddress(),
				PollInterval:      c.PollInterval,
			},
			Snapshot: a.Snapshot(),
		}
		err := enc.Encode(v)
		if err != nil {
			panic(err)
		}
	}
}
