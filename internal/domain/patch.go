package domain

// Patch types carry only the fields an update wants to change. A nil pointer
// leaves the current value alone.

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	return c
}

type AddonPatch struct {
	Name     *string        `json:"name"`
	Price    *float64       `json:"price"`
	Category *AddonCategory `json:"category"`
}

func (p AddonPatch) Apply(a Addon) Addon {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	return a
}

// ProductPatch replaces Sizes and AddonIDs wholesale when set.
type ProductPatch struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	Price           *float64       `json:"price"`
	CategoryID      *string        `json:"categoryId"`
	AddonIDs        *[]string      `json:"addonIds"`
	Image           *string        `json:"image"`
	PreparationTime *int           `json:"preparationTime"`
	SpicyLevel      *int           `json:"spicyLevel"`
	Sizes           *[]ProductSize `json:"sizes"`
	DefaultSizeID   *string        `json:"defaultSizeId"`
}

// Apply merges every scalar field. Add-on links are resolved by the caller,
// which owns the add-on collection.
func (p ProductPatch) Apply(pr Product) Product {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Price != nil {
		pr.Price = *p.Price
	}
	if p.CategoryID != nil {
		pr.CategoryID = *p.CategoryID
	}
	if p.Image != nil {
		pr.Image = *p.Image
	}
	if p.PreparationTime != nil {
		pr.PreparationTime = *p.PreparationTime
	}
	if p.SpicyLevel != nil {
		pr.SpicyLevel = *p.SpicyLevel
	}
	if p.Sizes != nil {
		pr.Sizes = append([]ProductSize(nil), (*p.Sizes)...)
	}
	if p.DefaultSizeID != nil {
		pr.DefaultSizeID = *p.DefaultSizeID
	}
	return pr
}

type SchedulePatch struct {
	Open  *string `json:"open"`
	Close *string `json:"close"`
}

type ConfigPatch struct {
	Name        *string        `json:"name"`
	Address     *string        `json:"address"`
	Phone       *string        `json:"phone"`
	WhatsApp    *string        `json:"whatsapp"`
	Schedule    *SchedulePatch `json:"schedule"`
	Location    *Location      `json:"location"`
	Logo        *string        `json:"logo"`
	SocialMedia *SocialMedia   `json:"socialMedia"`
}

func (p ConfigPatch) Apply(c RestaurantConfig) RestaurantConfig {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.WhatsApp != nil {
		c.WhatsApp = *p.WhatsApp
	}
	if p.Schedule != nil {
		if p.Schedule.Open != nil {
			c.Schedule.Open = *p.Schedule.Open
		}
		if p.Schedule.Close != nil {
			c.Schedule.Close = *p.Schedule.Close
		}
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.Logo != nil {
		c.Logo = *p.Logo
	}
	if p.SocialMedia != nil {
		c.SocialMedia = *p.SocialMedia
	}
	return c
}
