package mcp

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/neardup/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/services"
	"github.com/custodia-labs/neardup/internal/hashers"
)

// newTestServer builds a server over a real dedup service and an in-memory
// report store.
func newTestServer(t *testing.T) (*Server, *memory.ReportStore) {
	t.Helper()
	reports := memory.NewReportStore()
	settings := domain.DefaultDedupSettings().WithSeed(42)
	dedup, err := services.NewDedupService(settings, hashers.NewSHA3(), memory.NewCandidateIndex(),
		services.WithReportStore(reports))
	require.NoError(t, err)

	server, err := NewServer(&Ports{Dedup: dedup, Reports: reports})
	require.NoError(t, err)
	return server, reports
}

func words(prefix string, n int) string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(tokens, " ")
}
