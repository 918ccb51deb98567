package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/rs/zerolog"
)

// GameTypes lists every game a bot can have metrics for.
var GameTypes = []string{
	"sum", "subtract", "multiply", "divide", "tiger_hunt",
	"wordhunt", "wordsdance", "comparison", "similarity",
	"antosyn", "snake", "memory", "chess", "tetris",
}

// BotAvatars are the avatar keys bots pick from.
var BotAvatars = []string{
	"animal_1", "animal_2", "animal_3", "animal_4", "animal_5",
	"animal_6", "animal_7", "animal_8", "animal_9", "animal_10",
	"Boy_1", "Boy_2", "Boy_3", "Boy_4", "Boy_5", "Boy_6", "Boy_7",
	"Boy_8", "Boy_9", "Boy_10", "Boy_11", "Boy_12", "Boy_13", "Boy_14", "Boy_15",
	"Girl_1", "Girl_2", "Girl_3", "Girl_4", "Girl_5", "Girl_6", "Girl_7", "Girl_8",
	"Girl_9", "Girl_10", "Girl_11", "Girl_12", "Girl_13", "Girl_14",
	"Sausage", "FlyingGirl", "FoxFace", "Ninja",
}

const (
	botPlayChance = 0.7
	botMinPlays   = 10
	botPlaySpread = 50
	botMinAvg     = 50
	botAvgSpread  = 200
)

type BotService struct {
	clock
	users  *repository.UserRepository
	rand   *lockedRand
	logger *zerolog.Logger
}

// NewBotService builds the service; a nil r uses a randomly seeded source.
func NewBotService(users *repository.UserRepository, r *rand.Rand, logger *zerolog.Logger) *BotService {
	return &BotService{users: users, rand: newLockedRand(r), logger: logger}
}

func intMap(d store.Document) map[string]int {
	out := make(map[string]int, len(d))
	for k, v := range d {
		if n, ok := store.AsInt(v); ok {
			out[k] = n
		}
	}
	return out
}

func botFromDoc(key string, d store.Document) model.Bot {
	metrics := d.Map("gameMetrics")
	b := model.Bot{
		Key:            key,
		Username:       orString(d["username"], orString(d["name"], key)),
		AvatarKey:      d.String("avatarKey"),
		GameScores:     intMap(metrics.Map("gameScores")),
		GamePlayCounts: intMap(metrics.Map("gamePlayCounts")),
	}
	if n, ok := d.Int("updatedAt"); ok {
		b.UpdatedAt = int64(n)
	}
	return b
}

// ListBots returns the system users sorted by username.
func (s *BotService) ListBots(ctx context.Context) ([]model.Bot, error) {
	entries, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Bot{}
	for _, e := range entries {
		if e.Data.Bool("isSystemUser") {
			out = append(out, botFromDoc(e.Key, e.Data))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// metrics draws a fresh set of scores, play counts and an avatar.
func (s *BotService) metrics() (scores, plays map[string]int, avatar string) {
	scores = make(map[string]int, len(GameTypes))
	plays = make(map[string]int, len(GameTypes))
	for _, game := range GameTypes {
		if s.rand.Float64() < botPlayChance {
			n := s.rand.IntN(botPlaySpread) + botMinPlays
			avg := s.rand.IntN(botAvgSpread) + botMinAvg
			scores[game] = n * avg
			plays[game] = n
			continue
		}
		scores[game] = 0
		plays[game] = 0
	}
	avatar = BotAvatars[s.rand.IntN(len(BotAvatars))]
	return scores, plays, avatar
}

func (s *BotService) patch() map[string]any {
	scores, plays, avatar := s.metrics()
	return map[string]any{
		"gameMetrics/gameScores":     toAnyMap(scores),
		"gameMetrics/gamePlayCounts": toAnyMap(plays),
		"avatarKey":                  avatar,
		"updatedAt":                  s.nowMillis(),
	}
}

func toAnyMap(m map[string]int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RandomizeBot regenerates one bot's metrics and avatar.
func (s *BotService) RandomizeBot(ctx context.Context, key string) (*model.Bot, error) {
	doc, err := s.users.Get(ctx, key)
	if err != nil {
		return nil, notFound(err, "Bot bulunamadı")
	}
	if !doc.Bool("isSystemUser") {
		return nil, badRequest(fmt.Sprintf("%s bir bot değil", key))
	}

	updated, err := s.users.Patch(ctx, key, s.patch())
	if err != nil {
		return nil, notFound(err, "Bot bulunamadı")
	}

	b := botFromDoc(key, updated)
	s.logger.Info().Str("bot", key).Str("avatar", b.AvatarKey).Msg("bot randomized")
	return &b, nil
}

// RandomizeAll regenerates every bot in a single write.
func (s *BotService) RandomizeAll(ctx context.Context) (*model.ActionResult, error) {
	bots, err := s.ListBots(ctx)
	if err != nil {
		return nil, err
	}
	if len(bots) == 0 {
		return &model.ActionResult{Success: true, Message: "Güncellenecek bot bulunamadı", Details: 0}, nil
	}

	patches := make(map[string]map[string]any, len(bots))
	for _, b := range bots {
		patches[b.Key] = s.patch()
	}
	if err := s.users.PatchMany(ctx, patches); err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(bots)).Msg("all bots randomized")
	return &model.ActionResult{
		Success: true,
		Message: "Tüm botlar güncellendi!",
		Details: len(bots),
	}, nil
}
