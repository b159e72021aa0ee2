package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
)

var (
	// ErrNotFound is returned when no volunteer matches an ID or name
	ErrNotFound = errors.New("volunteer not found")

	// ErrAmbiguous is returned when a name matches more than one volunteer
	ErrAmbiguous = errors.New("more than one volunteer matches")
)

// Profile is the editable part of a volunteer record
type Profile struct {
	Name      string        `validate:"required"`
	Phone     string        `validate:"required"`
	Role      model.Role    `validate:"omitempty,role"`
	Cadence   model.Cadence `validate:"omitempty,cadence"`
	FirstTime bool
	Active    bool
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("cadence", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseCadence(fl.Field().String())
		return ok
	})
}

// normalize trims the profile and fills role and cadence defaults
func (p Profile) normalize(defaultCadence model.Cadence) (Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)

	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("invalid volunteer: %w", err)
	}

	if p.Role == "" {
		p.Role = model.RoleVolunteer
	}
	cadence, ok := model.ParseCadence(string(p.Cadence))
	if !ok {
		cadence, ok = model.ParseCadence(string(defaultCadence))
		if !ok {
			cadence = model.CadenceMonthly
		}
	}
	p.Cadence = cadence
	return p, nil
}

// Add creates an active volunteer from the profile and puts them at the top of the registry
func Add(state *model.State, p Profile, defaultCadence model.Cadence, newID func() string) (*model.State, model.Volunteer, error) {
	p, err := p.normalize(defaultCadence)
	if err != nil {
		return state, model.Volunteer{}, err
	}

	v := model.Volunteer{
		ID:            newID(),
		Name:          p.Name,
		Phone:         p.Phone,
		CoreRole:      p.Role,
		InviteCadence: p.Cadence,
		Active:        true,
		FirstTime:     p.FirstTime,
	}

	out := state.Clone()
	out.Volunteers = append([]model.Volunteer{v}, out.Volunteers...)
	return out, v, nil
}

// Edit replaces the volunteer's profile. History fields are kept.
func Edit(state *model.State, id string, p Profile, defaultCadence model.Cadence) (*model.State, error) {
	p, err := p.normalize(defaultCadence)
	if err != nil {
		return state, err
	}
	return update(state, id, func(v *model.Volunteer) {
		v.Name = p.Name
		v.Phone = p.Phone
		v.CoreRole = p.Role
		v.InviteCadence = p.Cadence
		v.FirstTime = p.FirstTime
		v.Active = p.Active
	})
}

// ToggleActive flips whether the volunteer can be invited
func ToggleActive(state *model.State, id string) (*model.State, error) {
	return update(state, id, func(v *model.Volunteer) { v.Active = !v.Active })
}

// ToggleFirstTime flips the first-timer flag used for message selection
func ToggleFirstTime(state *model.State, id string) (*model.State, error) {
	return update(state, id, func(v *model.Volunteer) { v.FirstTime = !v.FirstTime })
}

// SetRole changes the volunteer's core role
func SetRole(state *model.State, id string, role model.Role) (*model.State, error) {
	if !role.IsValid() {
		return state, fmt.Errorf("unknown role %q", role)
	}
	return update(state, id, func(v *model.Volunteer) { v.CoreRole = role })
}

// SetCadence changes how often the volunteer is invited
func SetCadence(state *model.State, id string, cadence string) (*model.State, error) {
	c, ok := model.ParseCadence(cadence)
	if !ok {
		return state, fmt.Errorf("unknown cadence %q", cadence)
	}
	return update(state, id, func(v *model.Volunteer) { v.InviteCadence = c })
}

// Delete removes the volunteer from the registry. Their past invites stay on
// the weeks they belong to.
func Delete(state *model.State, id string) (*model.State, error) {
	i := state.VolunteerIndex(id)
	if i < 0 {
		return state, ErrNotFound
	}
	out := state.Clone()
	out.Volunteers = slices.Delete(out.Volunteers, i, i+1)
	return out, nil
}

func update(state *model.State, id string, fn func(v *model.Volunteer)) (*model.State, error) {
	if state.VolunteerIndex(id) < 0 {
		return state, ErrNotFound
	}
	out := state.Clone()
	fn(out.Volunteer(id))
	return out, nil
}

// Find resolves a volunteer by exact ID, then by case-insensitive name, then by
// unique name prefix
func Find(state *model.State, query string) (*model.Volunteer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}
	if v := state.Volunteer(query); v != nil {
		return v, nil
	}

	var exact, prefix []int
	lower := strings.ToLower(query)
	for i, v := range state.Volunteers {
		name := strings.ToLower(strings.TrimSpace(v.Name))
		if name == lower {
			exact = append(exact, i)
		} else if strings.HasPrefix(name, lower) {
			prefix = append(prefix, i)
		}
	}

	for _, matches := range [][]int{exact, prefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return &state.Volunteers[matches[0]], nil
		default:
			return nil, fmt.Errorf("%w %q", ErrAmbiguous, query)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, query)
}

// Sorted returns the registry ordered by role priority then name
func Sorted(volunteers []model.Volunteer) []model.Volunteer {
	out := slices.Clone(volunteers)
	slices.SortStableFunc(out, func(a, b model.Volunteer) int {
		if ra, rb := model.RoleRank(a.Role()), model.RoleRank(b.Role()); ra != rb {
			return ra - rb
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}
