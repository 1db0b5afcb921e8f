package web

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/loop/server"
)

func TestSessionObserverReportsDeltas(t *testing.T) {
	m := NewMetrics()
	a := m.newSessionObserver()
	b := m.newSessionObserver()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessions))

	a.ObserveTick(server.TickStats{Enemies: 3, Projectiles: 2, Stats: game.Stats{Kills: 1}})
	b.ObserveTick(server.TickStats{Enemies: 1, Stats: game.Stats{Kills: 2}})
	a.ObserveTick(server.TickStats{Enemies: 2, Projectiles: 1, Stats: game.Stats{Kills: 4, GamesOver: 1}})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.enemies))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.projectiles))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.kills))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gamesOver))

	// Reset drops the world counters back to zero; the totals must not go down
	a.ObserveTick(server.TickStats{})
	assert.Equal(t, 6.0, testutil.ToFloat64(m.kills))

	a.close()
	b.close()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.enemies))
}
