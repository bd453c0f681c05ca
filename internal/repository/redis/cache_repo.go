package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
	"github.com/weblarek/storefront-backend/internal/cfg"
	"github.com/weblarek/storefront-backend/internal/domain"
	"github.com/weblarek/storefront-backend/internal/repository/redis/converter"
	"github.com/weblarek/storefront-backend/pkg/clients"
	"github.com/weblarek/storefront-backend/pkg/e"
	"github.com/weblarek/storefront-backend/pkg/logger"
)

const catalogKey = "catalog:ids"

// CacheRepo кэширует каталог товаров в Redis: товары лежат по ключам
// product:{id}, порядок каталога — отдельным списком идентификаторов.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// SetCatalog атомарно кэширует каталог с заданным TTL.
// Ошибки сериализации отдельных товаров логируются и пропускаются.
func (r *CacheRepo) SetCatalog(ctx context.Context, products []domain.Product) error {
	models := r.conv.ToArrRedisModel(products)

	ids := make([]string, 0, len(models))
	pipeline := r.client.Client.Pipeline()
	for _, model := range models {
		data, err := json.Marshal(model)
		if err != nil {
			r.logger.Warnf("Failed to marshal product for caching (Product ID: %s): %v", model.ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		pipeline.Set(ctx, r.productKey(model.ID), data, r.cfg.ProductTTL)
		ids = append(ids, model.ID)
	}

	idsData, err := json.Marshal(ids)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	pipeline.Set(ctx, catalogKey, idsData, r.cfg.ProductTTL)

	if _, err := pipeline.Exec(ctx); err != nil {
		r.logger.Warnf("Cache pipeline failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetCatalog возвращает закэшированный каталог в исходном порядке,
// игнорируя промахи по отдельным товарам и логируя их.
func (r *CacheRepo) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	idsVal, err := r.client.Client.Get(ctx, catalogKey).Result()
	if err != nil {
		if isNil(err) {
			return nil, nil // каталог ещё не кэшировался
		}
		r.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(idsVal), &ids); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}

	values, err := r.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warnf("Redis MGET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]domain.Product, 0, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		var model converter.ProductRedisModel
		if err := json.Unmarshal(data, &model); err != nil {
			r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		if model.ID != ids[i] {
			r.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", ids[i], model.ID)
			if err := r.client.Client.Del(context.Background(), keys[i]).Err(); err != nil {
				r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
			}
			continue // cache miss
		}

		result = append(result, *r.conv.ToEntity(&model))
	}

	return result, nil
}

// DeleteCatalog удаляет кэш каталога целиком.
func (r *CacheRepo) DeleteCatalog(ctx context.Context) error {
	idsVal, err := r.client.Client.Get(ctx, catalogKey).Result()
	if err != nil {
		if isNil(err) {
			return nil
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(idsVal), &ids); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.productKey(id))
	}
	keys = append(keys, catalogKey)

	if err := r.client.Client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// productKey возвращает Redis-ключ для одного товара
func (r *CacheRepo) productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// isNil сообщает, является ли ошибка redis.Nil (промах кэша).
func isNil(err error) bool {
	return errors.Is(err, goredis.Nil)
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
