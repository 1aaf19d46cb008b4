package domain

// AddonCategory groups add-ons on the menu.
type AddonCategory string

const (
	AddonSauce   AddonCategory = "sauce"
	AddonExtra   AddonCategory = "extra"
	AddonProtein AddonCategory = "protein"
	AddonTopping AddonCategory = "topping"
)

// Valid reports whether c is one of the known add-on categories.
func (c AddonCategory) Valid() bool {
	switch c {
	case AddonSauce, AddonExtra, AddonProtein, AddonTopping:
		return true
	}
	return false
}

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

type Addon struct {
	ID       string        `db:"id" json:"id"`
	Name     string        `db:"name" json:"name"`
	Price    float64       `db:"price" json:"price"`
	Category AddonCategory `db:"category" json:"category"`
}

// ProductSize is owned by exactly one product.
type ProductSize struct {
	ID    string  `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Price float64 `db:"price" json:"price"`
}

type Product struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Price           float64       `json:"price"`
	CategoryID      string        `json:"categoryId"`
	Addons          []Addon       `json:"addons"`
	Image           string        `json:"image,omitempty"`
	PreparationTime int           `json:"preparationTime,omitempty"` // minutes
	SpicyLevel      int           `json:"spicyLevel,omitempty"`      // 0-3
	Sizes           []ProductSize `json:"sizes,omitempty"`
	DefaultSizeID   string        `json:"defaultSizeId,omitempty"`
}

// Size returns the size with the given id.
func (p Product) Size(id string) (ProductSize, bool) {
	if id == "" {
		return ProductSize{}, false
	}
	for _, s := range p.Sizes {
		if s.ID == id {
			return s, true
		}
	}
	return ProductSize{}, false
}

// Addon returns the add-on attached to the product with the given id.
func (p Product) Addon(id string) (Addon, bool) {
	for _, a := range p.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return Addon{}, false
}

// Clone returns a deep copy, so cart lines never share slices with the catalog.
func (p Product) Clone() Product {
	out := p
	if p.Addons != nil {
		out.Addons = append([]Addon(nil), p.Addons...)
	}
	if p.Sizes != nil {
		out.Sizes = append([]ProductSize(nil), p.Sizes...)
	}
	return out
}

// CartLine holds a snapshot of the product taken when it was added.
type CartLine struct {
	Product          Product  `json:"product"`
	Quantity         int      `json:"quantity"`
	SelectedAddonIDs []string `json:"selectedAddonIds"`
	SelectedSizeID   string   `json:"selectedSizeId,omitempty"`
}

type Schedule struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

type RestaurantConfig struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Phone       string      `json:"phone"`
	WhatsApp    string      `json:"whatsapp"`
	Schedule    Schedule    `json:"schedule"`
	Location    Location    `json:"location"`
	Logo        string      `json:"logo,omitempty"`
	SocialMedia SocialMedia `json:"socialMedia"`
}

// DefaultConfig is used until an administrator saves settings.
func DefaultConfig() RestaurantConfig {
	return RestaurantConfig{
		Name:     "Mi Restaurante",
		Address:  "Calle Principal 123 ciudad Jardin",
		Phone:    "+573156100334",
		WhatsApp: "+573156100334",
		Schedule: Schedule{Open: "12:00", Close: "23:00"},
	}
}
