package constant

// Canonical clothing categories. Every catalog row is normalized into one
// of these; anything we cannot place falls through to accessories.
const (
	CategoryTopwear     = "topwear"
	CategoryBottomwear  = "bottomwear"
	CategoryOuterwear   = "outerwear"
	CategoryFootwear    = "footwear"
	CategoryAccessories = "accessories"
	CategoryDress       = "dress"
)

// CategoryAliases maps lowercased free-form catalog labels to the
// canonical category set.
var CategoryAliases = map[string]string{
	"top":         CategoryTopwear,
	"tops":        CategoryTopwear,
	"topwear":     CategoryTopwear,
	"shirt":       CategoryTopwear,
	"shirts":      CategoryTopwear,
	"t-shirt":     CategoryTopwear,
	"blouse":      CategoryTopwear,
	"knitwear":    CategoryTopwear,
	"sweater":     CategoryTopwear,
	"bottom":      CategoryBottomwear,
	"bottoms":     CategoryBottomwear,
	"bottomwear":  CategoryBottomwear,
	"pants":       CategoryBottomwear,
	"trousers":    CategoryBottomwear,
	"jeans":       CategoryBottomwear,
	"skirt":       CategoryBottomwear,
	"shorts":      CategoryBottomwear,
	"outerwear":   CategoryOuterwear,
	"jacket":      CategoryOuterwear,
	"jackets":     CategoryOuterwear,
	"coat":        CategoryOuterwear,
	"coats":       CategoryOuterwear,
	"blazer":      CategoryOuterwear,
	"footwear":    CategoryFootwear,
	"shoes":       CategoryFootwear,
	"boots":       CategoryFootwear,
	"sneakers":    CategoryFootwear,
	"sandals":     CategoryFootwear,
	"heels":       CategoryFootwear,
	"accessory":   CategoryAccessories,
	"accessories": CategoryAccessories,
	"bag":         CategoryAccessories,
	"bags":        CategoryAccessories,
	"belt":        CategoryAccessories,
	"scarf":       CategoryAccessories,
	"hat":         CategoryAccessories,
	"jewelry":     CategoryAccessories,
	"sunglasses":  CategoryAccessories,
	"watch":       CategoryAccessories,
	"dress":       CategoryDress,
	"dresses":     CategoryDress,
	"gown":        CategoryDress,
}
