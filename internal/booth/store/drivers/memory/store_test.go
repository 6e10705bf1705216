package memory_test

import (
	"testing"

	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/internal/booth/store/drivers/memory"
	"github.com/aussiebroadwan/biovote/internal/booth/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.NewStore()
	})
}
