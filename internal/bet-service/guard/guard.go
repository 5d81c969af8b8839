package guard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bigmoneygaming/campaign-bet-platform/internal/campaign"
)

// CampaignGuard lê o estado de campanha cacheado no Redis pelo
// campaign-monitor. É o caminho rápido do gate de apostas; cache miss
// não decide nada, o chamador recai na janela autoritativa do Postgres.
type CampaignGuard struct {
	Rdb *redis.Client
}

func NewCampaignGuard(r *redis.Client) *CampaignGuard { return &CampaignGuard{Rdb: r} }

// Chave "campaign:state:{gameID}" => valor string com o estado, ex: "live"
func key(gameID string) string { return fmt.Sprintf("campaign:state:%s", gameID) }

// CachedState retorna o estado cacheado do jogo. redis.Nil => cache miss.
func (g *CampaignGuard) CachedState(ctx context.Context, gameID string) (campaign.State, error) {
	val, err := g.Rdb.Get(ctx, key(gameID)).Result()
	if err != nil {
		return "", err
	}
	return campaign.State(val), nil
}
