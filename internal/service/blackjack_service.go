package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
	cardSuits = []string{"H", "D", "C", "S"}
)

const dealerStandScore = 17

// NewDeck 返回52张未洗的牌，形如 "10H"、"AS"
func NewDeck() []string {
	deck := make([]string, 0, len(cardRanks)*len(cardSuits))
	for _, suit := range cardSuits {
		for _, rank := range cardRanks {
			deck = append(deck, rank+suit)
		}
	}
	return deck
}

func cardValue(card string) int {
	if len(card) < 2 {
		return 0
	}
	rank := card[:len(card)-1]
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K":
		return 10
	}
	v := 0
	for _, ch := range rank {
		if ch < '0' || ch > '9' {
			return 0
		}
		v = v*10 + int(ch-'0')
	}
	return v
}

// HandScore A先按11计，超过21时逐张降为1
func HandScore(hand []string) int {
	score, aces := 0, 0
	for _, card := range hand {
		score += cardValue(card)
		if strings.HasPrefix(card, "A") {
			aces++
		}
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// SettleHand 玩家停牌后比较得分，返回结果与余额变化
func SettleHand(playerScore, dealerScore int, bet float64) (string, float64) {
	switch {
	case playerScore > 21:
		return model.GameResultLose, -bet
	case dealerScore > 21 || playerScore > dealerScore:
		return model.GameResultWin, bet
	case playerScore < dealerScore:
		return model.GameResultLose, -bet
	default:
		return model.GameResultDraw, 0
	}
}

type BlackjackService struct {
	DB            *gorm.DB
	PersonRepo    *repository.PersonRepository
	BlackjackRepo *repository.BlackjackRepository
	GameRepo      *repository.GameRepository

	mu  sync.Mutex
	rng *rand.Rand
}

func NewBlackjackService(db *gorm.DB, personRepo *repository.PersonRepository, blackjackRepo *repository.BlackjackRepository, gameRepo *repository.GameRepository) *BlackjackService {
	return &BlackjackService{
		DB:            db,
		PersonRepo:    personRepo,
		BlackjackRepo: blackjackRepo,
		GameRepo:      gameRepo,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand 替换随机源（测试用）
func (s *BlackjackService) SetRand(r *rand.Rand) {
	s.mu.Lock()
	s.rng = r
	s.mu.Unlock()
}

func (s *BlackjackService) shuffled() []string {
	deck := NewDeck()
	s.mu.Lock()
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	s.mu.Unlock()
	return deck
}

func (s *BlackjackService) person(uid string) (*model.Person, error) {
	person, err := s.PersonRepo.FindByUID(uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPersonNotFound
	}
	return person, err
}

func (s *BlackjackService) Start(uid string, bet float64) (*model.Blackjack, error) {
	person, err := s.person(uid)
	if err != nil {
		return nil, err
	}
	if bet <= 0 {
		return nil, util.ErrInvalidBet
	}

	deck := s.shuffled()
	st := model.BlackjackState{
		PlayerHand: []string{deck[0], deck[2]},
		DealerHand: []string{deck[1], deck[3]},
		Deck:       deck[4:],
	}
	st.PlayerScore = HandScore(st.PlayerHand)
	st.DealerScore = HandScore(st.DealerHand)

	game := &model.Blackjack{
		PersonID:  person.ID,
		Status:    model.BlackjackActive,
		BetAmount: bet,
	}
	if err := game.SetState(st); err != nil {
		return nil, err
	}
	if err := s.BlackjackRepo.Create(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *BlackjackService) active(uid string) (*model.Person, *model.Blackjack, model.BlackjackState, error) {
	var st model.BlackjackState
	person, err := s.person(uid)
	if err != nil {
		return nil, nil, st, err
	}
	game, err := s.BlackjackRepo.FindLatestActive(person.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, st, util.ErrNoActiveGame
		}
		return nil, nil, st, err
	}
	st, err = game.State()
	return person, game, st, err
}

// Hit 玩家要牌，爆牌即判负并结束牌局
func (s *BlackjackService) Hit(uid string) (*model.Blackjack, error) {
	person, game, st, err := s.active(uid)
	if err != nil {
		return nil, err
	}
	if len(st.Deck) == 0 {
		return nil, util.ErrDeckEmpty
	}

	st.PlayerHand = append(st.PlayerHand, st.Deck[0])
	st.Deck = st.Deck[1:]
	st.PlayerScore = HandScore(st.PlayerHand)

	if st.PlayerScore > 21 {
		st.Result = model.GameResultLose
		return game, s.finish(person, game, st, -game.BetAmount)
	}

	if err := game.SetState(st); err != nil {
		return nil, err
	}
	ok, err := s.BlackjackRepo.Advance(nil, game, model.BlackjackActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrNoActiveGame
	}
	return game, nil
}

// Stand 庄家补牌至17点以上后结算
func (s *BlackjackService) Stand(uid string) (*model.Blackjack, error) {
	person, game, st, err := s.active(uid)
	if err != nil {
		return nil, err
	}

	for st.DealerScore < dealerStandScore && len(st.Deck) > 0 {
		st.DealerHand = append(st.DealerHand, st.Deck[0])
		st.Deck = st.Deck[1:]
		st.DealerScore = HandScore(st.DealerHand)
	}

	result, delta := SettleHand(st.PlayerScore, st.DealerScore, game.BetAmount)
	st.Result = result
	return game, s.finish(person, game, st, delta)
}

// finish 在同一事务内结束牌局、调整余额并记账
// 并发请求中只有先写入的一方结算，其余返回util.ErrNoActiveGame
func (s *BlackjackService) finish(person *model.Person, game *model.Blackjack, st model.BlackjackState, delta float64) error {
	if err := game.SetState(st); err != nil {
		return err
	}

	details, err := json.Marshal(map[string]interface{}{
		"blackjackId": game.ID,
		"playerHand":  st.PlayerHand,
		"dealerHand":  st.DealerHand,
		"playerScore": st.PlayerScore,
		"dealerScore": st.DealerScore,
	})
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.BlackjackRepo.Advance(tx, game, model.BlackjackInactive)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrNoActiveGame
		}
		balance, err := s.PersonRepo.AdjustBalance(tx, person.ID, delta)
		if err != nil {
			return err
		}
		person.Balance = balance
		return s.GameRepo.Create(tx, &model.Game{
			PersonID:  person.ID,
			PersonUID: person.UID,
			Type:      model.GameTypeBlackjack,
			TxID:      model.GenerateUUID(),
			BetAmount: game.BetAmount,
			Amount:    delta,
			Balance:   balance,
			Result:    st.Result,
			Success:   st.Result == model.GameResultWin,
			Details:   datatypes.JSON(details),
		})
	})
}

// GameService 游戏流水的增删改查
type GameService struct {
	GameRepo   *repository.GameRepository
	PersonRepo *repository.PersonRepository
}

func NewGameService(gameRepo *repository.GameRepository, personRepo *repository.PersonRepository) *GameService {
	return &GameService{GameRepo: gameRepo, PersonRepo: personRepo}
}

type CombinedGames struct {
	Count        int          `json:"count"`
	TotalBalance float64      `json:"totalBalance"`
	Games        []model.Game `json:"games"`
}

func (s *GameService) Combined(personID uint) (*CombinedGames, error) {
	games, err := s.GameRepo.FindByPersonID(personID)
	if err != nil {
		return nil, err
	}
	total, err := s.GameRepo.SumBalanceByPersonID(personID)
	if err != nil {
		return nil, err
	}
	return &CombinedGames{Count: len(games), TotalBalance: total, Games: games}, nil
}

func (s *GameService) Create(game *model.Game) error {
	if game.PersonID == 0 {
		return util.ErrInvalidInput
	}
	person, err := s.PersonRepo.FindByID(game.PersonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPersonNotFound
		}
		return err
	}
	game.PersonUID = person.UID
	if game.TxID == "" {
		game.TxID = model.GenerateUUID()
	}
	return s.GameRepo.Create(nil, game)
}

func (s *GameService) Get(id uint) (*model.Game, error) {
	return s.GameRepo.FindByID(id)
}

func (s *GameService) Update(id uint, patch *model.Game) (*model.Game, error) {
	game, err := s.GameRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Type != "" {
		game.Type = patch.Type
	}
	if patch.Result != "" {
		game.Result = patch.Result
	}
	if len(patch.Details) > 0 {
		game.Details = patch.Details
	}
	game.BetAmount = patch.BetAmount
	game.Amount = patch.Amount
	game.Balance = patch.Balance
	game.Success = patch.Success
	return game, s.GameRepo.Update(game)
}

func (s *GameService) Delete(id uint) (bool, error) {
	return s.GameRepo.Delete(id)
}
