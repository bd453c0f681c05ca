package domain

// Category описывает категорию товара. Набор значений фиксирован
// внешним API магазина.
type Category string

const (
	CategorySoftSkill  Category = "софт-скил"
	CategoryOther      Category = "другое"
	CategoryAdditional Category = "дополнительное"
	CategoryButton     Category = "кнопка"
	CategoryHardSkill  Category = "хард-скил"
)

// Valid сообщает, входит ли категория в известный набор.
func (c Category) Valid() bool {
	switch c {
	case CategorySoftSkill, CategoryOther, CategoryAdditional, CategoryButton, CategoryHardSkill:
		return true
	default:
		return false
	}
}

// Product описывает товар каталога.
type Product struct {
	ID          string
	Title       string
	Description string
	Image       string // Полная ссылка на изображение (CDN-префикс уже применён)
	Category    Category
	Price       *int64 // Цена хранится в копейках; nil — товар «бесценный»
	InBasket    bool   // Признак присутствия товара в корзине
}

func NewProduct(id, title, description, image string, category Category, price *int64) *Product {
	return &Product{
		ID:          id,
		Title:       title,
		Description: description,
		Image:       image,
		Category:    category,
		Price:       price,
	}
}

// PriceOrZero возвращает цену товара, считая nil нулём.
func (p *Product) PriceOrZero() int64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
