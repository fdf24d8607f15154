package service

import (
	"math/rand"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)

	seen := make(map[string]bool, len(deck))
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.True(t, seen["10H"])
	assert.True(t, seen["AS"])
}

func TestHandScore(t *testing.T) {
	tests := []struct {
		name string
		hand []string
		want int
	}{
		{"blackjack", []string{"AS", "KD"}, 21},
		{"two aces", []string{"AS", "AH"}, 12},
		{"soft to hard", []string{"AS", "9D", "5C"}, 15},
		{"three aces and nine", []string{"AS", "AH", "AD", "9C"}, 12},
		{"ten card", []string{"10H", "7S"}, 17},
		{"bust", []string{"KH", "QS", "2D"}, 22},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandScore(tt.hand))
		})
	}
}

func TestSettleHand(t *testing.T) {
	result, delta := SettleHand(22, 18, 50)
	assert.Equal(t, model.GameResultLose, result)
	assert.Equal(t, -50.0, delta)

	result, delta = SettleHand(18, 23, 50)
	assert.Equal(t, model.GameResultWin, result)
	assert.Equal(t, 50.0, delta)

	result, delta = SettleHand(20, 18, 50)
	assert.Equal(t, model.GameResultWin, result)
	assert.Equal(t, 50.0, delta)

	result, delta = SettleHand(17, 19, 50)
	assert.Equal(t, model.GameResultLose, result)
	assert.Equal(t, -50.0, delta)

	result, delta = SettleHand(19, 19, 50)
	assert.Equal(t, model.GameResultDraw, result)
	assert.Equal(t, 0.0, delta)
}

func newBlackjackFixture(t *testing.T) (*BlackjackService, *repository.PersonRepository, *repository.BlackjackRepository, *repository.GameRepository) {
	db := newTestDB(t)
	personRepo := repository.NewPersonRepository(db)
	bjRepo := repository.NewBlackjackRepository(db)
	gameRepo := repository.NewGameRepository(db)
	svc := NewBlackjackService(db, personRepo, bjRepo, gameRepo)
	svc.SetRand(rand.New(rand.NewSource(42)))
	createPerson(t, db, "alice", model.RoleStudent)
	return svc, personRepo, bjRepo, gameRepo
}

// forceState 用固定牌面覆盖进行中的牌局
func forceState(t *testing.T, bjRepo *repository.BlackjackRepository, game *model.Blackjack, st model.BlackjackState) {
	t.Helper()
	st.PlayerScore = HandScore(st.PlayerHand)
	st.DealerScore = HandScore(st.DealerHand)
	require.NoError(t, game.SetState(st))
	ok, err := bjRepo.Advance(nil, game, model.BlackjackActive)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBlackjackStart(t *testing.T) {
	svc, _, _, _ := newBlackjackFixture(t)

	game, err := svc.Start("alice", 100)
	require.NoError(t, err)
	assert.Equal(t, model.BlackjackActive, game.Status)
	assert.Equal(t, 100.0, game.BetAmount)

	st, err := game.State()
	require.NoError(t, err)
	assert.Len(t, st.PlayerHand, 2)
	assert.Len(t, st.DealerHand, 2)
	assert.Len(t, st.Deck, 48)
	assert.Equal(t, HandScore(st.PlayerHand), st.PlayerScore)

	_, err = svc.Start("alice", 0)
	assert.ErrorIs(t, err, util.ErrInvalidBet)

	_, err = svc.Start("nobody", 10)
	assert.ErrorIs(t, err, util.ErrPersonNotFound)
}

func TestBlackjackHitWithoutGame(t *testing.T) {
	svc, _, _, _ := newBlackjackFixture(t)

	_, err := svc.Hit("alice")
	assert.ErrorIs(t, err, util.ErrNoActiveGame)

	_, err = svc.Stand("alice")
	assert.ErrorIs(t, err, util.ErrNoActiveGame)
}

func TestBlackjackHitBust(t *testing.T) {
	svc, personRepo, bjRepo, gameRepo := newBlackjackFixture(t)

	game, err := svc.Start("alice", 100)
	require.NoError(t, err)
	forceState(t, bjRepo, game, model.BlackjackState{
		PlayerHand: []string{"KH", "QS"},
		DealerHand: []string{"9C", "8D"},
		Deck:       []string{"5H", "2C"},
	})

	game, err = svc.Hit("alice")
	require.NoError(t, err)
	assert.Equal(t, model.BlackjackInactive, game.Status)

	st, err := game.State()
	require.NoError(t, err)
	assert.Equal(t, 25, st.PlayerScore)
	assert.Equal(t, model.GameResultLose, st.Result)
	assert.Equal(t, []string{"2C"}, st.Deck)

	person, err := personRepo.FindByUID("alice")
	require.NoError(t, err)
	assert.Equal(t, 900.0, person.Balance)

	games, err := gameRepo.FindByPersonID(person.ID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, model.GameTypeBlackjack, games[0].Type)
	assert.Equal(t, -100.0, games[0].Amount)
	assert.Equal(t, 900.0, games[0].Balance)
	assert.False(t, games[0].Success)

	_, err = svc.Hit("alice")
	assert.ErrorIs(t, err, util.ErrNoActiveGame)
}

func TestBlackjackHitKeepsGameActive(t *testing.T) {
	svc, _, bjRepo, _ := newBlackjackFixture(t)

	game, err := svc.Start("alice", 10)
	require.NoError(t, err)
	forceState(t, bjRepo, game, model.BlackjackState{
		PlayerHand: []string{"2H", "3S"},
		DealerHand: []string{"9C", "8D"},
		Deck:       []string{"4H"},
	})

	game, err = svc.Hit("alice")
	require.NoError(t, err)
	assert.Equal(t, model.BlackjackActive, game.Status)
	st, _ := game.State()
	assert.Equal(t, 9, st.PlayerScore)
	assert.Empty(t, st.Deck)

	_, err = svc.Hit("alice")
	assert.ErrorIs(t, err, util.ErrDeckEmpty)
}

func TestBlackjackStandDealerDraws(t *testing.T) {
	svc, personRepo, bjRepo, _ := newBlackjackFixture(t)

	game, err := svc.Start("alice", 200)
	require.NoError(t, err)
	forceState(t, bjRepo, game, model.BlackjackState{
		PlayerHand: []string{"KH", "9S"},
		DealerHand: []string{"5C", "6D"},
		Deck:       []string{"3H", "2C", "KD"},
	})

	game, err = svc.Stand("alice")
	require.NoError(t, err)
	st, err := game.State()
	require.NoError(t, err)

	// 5+6+3+2 = 16 仍需补牌，再拿K爆牌
	assert.Equal(t, []string{"5C", "6D", "3H", "2C", "KD"}, st.DealerHand)
	assert.Equal(t, 26, st.DealerScore)
	assert.Equal(t, model.GameResultWin, st.Result)

	person, err := personRepo.FindByUID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, person.Balance)
}

func TestBlackjackStandDraw(t *testing.T) {
	svc, personRepo, bjRepo, _ := newBlackjackFixture(t)

	game, err := svc.Start("alice", 50)
	require.NoError(t, err)
	forceState(t, bjRepo, game, model.BlackjackState{
		PlayerHand: []string{"KH", "8S"},
		DealerHand: []string{"QC", "8D"},
		Deck:       []string{"3H"},
	})

	game, err = svc.Stand("alice")
	require.NoError(t, err)
	st, _ := game.State()
	assert.Equal(t, model.GameResultDraw, st.Result)
	assert.Equal(t, []string{"QC", "8D"}, st.DealerHand)

	person, _ := personRepo.FindByUID("alice")
	assert.Equal(t, 1000.0, person.Balance)
}

func TestBlackjackConcurrentStandSettlesOnce(t *testing.T) {
	svc, personRepo, _, gameRepo := newBlackjackFixture(t)
	person, err := personRepo.FindByUID("alice")
	require.NoError(t, err)

	for round := 0; round < 10; round++ {
		_, err := svc.Start("alice", 10)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var settled atomic.Int32
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Stand("alice"); err == nil {
					settled.Add(1)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), settled.Load(), "round %d", round)
	}

	games, err := gameRepo.FindByPersonID(person.ID)
	require.NoError(t, err)
	assert.Len(t, games, 10)

	var net float64
	for _, g := range games {
		net += g.Amount
	}
	after, err := personRepo.FindByUID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1000.0+net, after.Balance)
}

func TestBlackjackStaleHitRejected(t *testing.T) {
	svc, _, bjRepo, _ := newBlackjackFixture(t)

	game, err := svc.Start("alice", 10)
	require.NoError(t, err)
	forceState(t, bjRepo, game, model.BlackjackState{
		PlayerHand: []string{"2H", "3S"},
		DealerHand: []string{"QC", "8D"},
		Deck:       []string{"4H", "5C", "6D"},
	})

	// 旧版本的写入不能覆盖已经推进过的牌局
	stale := *game
	_, err = svc.Hit("alice")
	require.NoError(t, err)

	ok, err := bjRepo.Advance(nil, &stale, model.BlackjackActive)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGameServiceCRUD(t *testing.T) {
	db := newTestDB(t)
	personRepo := repository.NewPersonRepository(db)
	svc := NewGameService(repository.NewGameRepository(db), personRepo)
	alice := createPerson(t, db, "alice", model.RoleStudent)

	err := svc.Create(&model.Game{Type: model.GameTypeBlackjack})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	err = svc.Create(&model.Game{PersonID: 999, Type: model.GameTypeBlackjack})
	assert.ErrorIs(t, err, util.ErrPersonNotFound)

	g := &model.Game{PersonID: alice.ID, Type: model.GameTypeBlackjack, Amount: 10, Balance: 1010}
	require.NoError(t, svc.Create(g))
	assert.Equal(t, "alice", g.PersonUID)
	assert.NotEmpty(t, g.TxID)

	require.NoError(t, svc.Create(&model.Game{PersonID: alice.ID, Type: model.GameTypeBlackjack, Balance: 990}))

	combined, err := svc.Combined(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, combined.Count)
	assert.Equal(t, 2000.0, combined.TotalBalance)

	updated, err := svc.Update(g.ID, &model.Game{Result: model.GameResultWin, Amount: 20, Balance: 1020, Success: true})
	require.NoError(t, err)
	assert.Equal(t, model.GameResultWin, updated.Result)
	assert.Equal(t, model.GameTypeBlackjack, updated.Type)
	assert.True(t, updated.Success)

	ok, err := svc.Delete(g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(g.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
