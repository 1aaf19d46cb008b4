package services

import (
	"menuboard/internal/domain"
	"menuboard/internal/repos"
	"menuboard/internal/validate"
)

type SettingsService struct {
	Repo *repos.ConfigRepo
}

func NewSettingsService(r *repos.ConfigRepo) *SettingsService { return &SettingsService{Repo: r} }

func (s *SettingsService) Get() (domain.RestaurantConfig, error) { return s.Repo.Get() }

// Update merges p into the saved settings.
func (s *SettingsService) Update(p domain.ConfigPatch) (domain.RestaurantConfig, error) {
	cur, err := s.Repo.Get()
	if err != nil {
		return domain.RestaurantConfig{}, err
	}
	next := p.Apply(cur)

	name, ok := validate.Name(next.Name)
	if !ok {
		return domain.RestaurantConfig{}, invalid("restaurant name is required")
	}
	next.Name = name
	if _, ok := validate.Phone(next.WhatsApp); !ok {
		return domain.RestaurantConfig{}, invalid("whatsapp number looks wrong")
	}
	if next.Phone != "" {
		if _, ok := validate.Phone(next.Phone); !ok {
			return domain.RestaurantConfig{}, invalid("phone number looks wrong")
		}
	}
	if _, ok := validate.Clock(next.Schedule.Open); !ok {
		return domain.RestaurantConfig{}, invalid("opening time must look like 12:00")
	}
	if _, ok := validate.Clock(next.Schedule.Close); !ok {
		return domain.RestaurantConfig{}, invalid("closing time must look like 23:00")
	}
	if next.Location.Lat < -90 || next.Location.Lat > 90 || next.Location.Lng < -180 || next.Location.Lng > 180 {
		return domain.RestaurantConfig{}, invalid("location is out of range")
	}

	if err := s.Repo.Save(next); err != nil {
		return domain.RestaurantConfig{}, err
	}
	return next, nil
}
