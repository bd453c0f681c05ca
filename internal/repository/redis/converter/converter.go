package converter

import "github.com/weblarek/storefront-backend/internal/domain"

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
	ToArrEntity(models []ProductRedisModel) []domain.Product
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:          entity.ID,
		Title:       entity.Title,
		Description: entity.Description,
		Image:       entity.Image,
		Category:    string(entity.Category),
		Price:       entity.Price,
	}
}

// ToEntity восстанавливает доменный товар из кэша.
// Признак членства в корзине в кэш не попадает: его источник — модель магазина.
func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	return domain.NewProduct(
		model.ID,
		model.Title,
		model.Description,
		model.Image,
		domain.Category(model.Category),
		model.Price,
	)
}

func (c *ProductConverterImpl) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	result := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}

func (c *ProductConverterImpl) ToArrEntity(models []ProductRedisModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}

	return result
}
