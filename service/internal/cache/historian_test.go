package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	id := uuid.MustParse("6f1c2e1a-3a8b-4c1d-9b7e-2f0a1b2c3d4e")
	assert.Equal(t, "gemduel:game:6f1c2e1a-3a8b-4c1d-9b7e-2f0a1b2c3d4e:actions", ActionsKey(id))
	assert.Equal(t, "gemduel:game:6f1c2e1a-3a8b-4c1d-9b7e-2f0a1b2c3d4e:replay", ReplayKey(id))
}

func TestDisabledHistorianDropsWrites(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	for _, h := range []*Historian{nil, NewHistorian(nil)} {
		require.NoError(t, h.PublishGameAction(ctx, GameActionRecord{GameID: id, Action: engine.Envelope{Type: engine.TagReplenish}}))
		require.NoError(t, h.SaveReplay(ctx, id, history.Replay{Version: "1.0.0"}))

		_, err := h.LoadReplay(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)

		n, err := h.ActionCount(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}
