package services

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var fieldKeyPattern = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)

type CreateFieldDefInput struct {
	Name        string           `json:"name" validate:"required,max=80"`
	Key         string           `json:"key" validate:"omitempty,max=80"`
	Type        models.FieldType `json:"type" validate:"required,oneof=text number bool date enum url"`
	Unit        string           `json:"unit" validate:"max=20"`
	EnumOptions []string         `json:"enum_options" validate:"max=100,dive,required,max=80"`
	Position    int              `json:"position" validate:"gte=0"`
	IsPrimary   bool             `json:"is_primary"`
}

type UpdateFieldDefInput struct {
	Name        *string           `json:"name" validate:"omitempty,min=1,max=80"`
	Type        *models.FieldType `json:"type" validate:"omitempty,oneof=text number bool date enum url"`
	Unit        *string           `json:"unit" validate:"omitempty,max=20"`
	EnumOptions *[]string         `json:"enum_options" validate:"omitempty,max=100,dive,required,max=80"`
	Position    *int              `json:"position" validate:"omitempty,gte=0"`
	IsPrimary   *bool             `json:"is_primary"`
}

// ItemFields lists the fields of an item's current section and the values it holds for them.
type ItemFields struct {
	Fields []*models.SectionFieldDef       `json:"fields"`
	Values []*models.BagListItemFieldValue `json:"values"`
}

func fieldKey(name string) string {
	return strings.ReplaceAll(Slugify(name), "-", "_")
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o != "" && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

// ParseFieldValue converts user input into a value of the definition's type.
// Booleans accept true/false, 1/0, on/off and yes/no; dates use YYYY-MM-DD; enum values
// must be one of the definition's options; urls must be absolute http or https URLs.
func ParseFieldValue(def models.SectionFieldDef, raw string) (models.FieldValue, error) {
	invalid := func(reason string) (models.FieldValue, error) {
		return models.FieldValue{}, errs.NewInvalidFieldError("value", reason)
	}
	raw = strings.TrimSpace(raw)

	switch def.Type {
	case models.FieldText:
		return models.TextValue(raw), nil
	case models.FieldNumber:
		n, err := decimal.NewFromString(raw)
		if err != nil {
			return invalid("must be a number")
		}
		return models.NumberValue(n), nil
	case models.FieldBool:
		switch strings.ToLower(raw) {
		case "true", "1", "on", "yes":
			return models.BoolValue(true), nil
		case "false", "0", "off", "no":
			return models.BoolValue(false), nil
		}
		return invalid("must be true or false")
	case models.FieldDate:
		t, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return invalid("must be a date formatted YYYY-MM-DD")
		}
		return models.DateValue(t), nil
	case models.FieldEnum:
		if !def.AllowsOption(raw) {
			return invalid("must be one of: " + strings.Join(def.EnumOptions, ", "))
		}
		return models.EnumValue(raw), nil
	case models.FieldURL:
		if !isHTTPURL(raw) {
			return invalid("must be an absolute http or https URL")
		}
		return models.URLValue(raw), nil
	}
	return invalid("field has an unknown type")
}

// ownedField loads a field definition whose section belongs to a live list of actor.
func ownedField(ctx context.Context, store database.Store, actor Actor, id uuid.UUID) (*models.SectionFieldDef, *models.BagListSection, error) {
	if err := actor.requireProfile(); err != nil {
		return nil, nil, err
	}
	def, err := store.Fields().FindDef(ctx, id)
	if isMissing(err) {
		return nil, nil, notFound("field")
	}
	if err != nil {
		return nil, nil, dbErr("find", "field", err)
	}
	section, _, err := ownedSection(ctx, store, actor, def.SectionID, false)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil, notFound("field")
		}
		return nil, nil, err
	}
	return def, section, nil
}

// clearOtherPrimaries keeps at most one primary field per section.
func clearOtherPrimaries(ctx context.Context, tx database.Store, def *models.SectionFieldDef) error {
	defs, err := tx.Fields().ListDefsBySection(ctx, def.SectionID)
	if err != nil {
		return dbErr("list", "fields", err)
	}
	for _, other := range defs {
		if other.ID == def.ID || !other.IsPrimary {
			continue
		}
		other.IsPrimary = false
		if err := tx.Fields().UpdateDef(ctx, other); err != nil {
			return dbErr("update", "field", err)
		}
	}
	return nil
}

// CreateFieldDef defines a typed field on a section. The key defaults to the slugified name
// and must be unique within the section.
func (s *Service) CreateFieldDef(ctx context.Context, actor Actor, sectionID uuid.UUID, in CreateFieldDefInput) (*models.SectionFieldDef, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	key := in.Key
	if key == "" {
		key = fieldKey(in.Name)
	}
	if !fieldKeyPattern.MatchString(key) {
		return nil, errs.NewInvalidFieldError("key", "use lowercase letters, digits and single underscores")
	}
	options := cleanOptions(in.EnumOptions)
	if in.Type == models.FieldEnum && len(options) == 0 {
		return nil, errs.NewInvalidFieldError("enum_options", "enum fields need at least one option")
	}
	if in.Type != models.FieldEnum {
		options = []string{}
	}

	def := &models.SectionFieldDef{
		SectionID:   sectionID,
		Name:        in.Name,
		Key:         key,
		Type:        in.Type,
		Unit:        strings.TrimSpace(in.Unit),
		EnumOptions: datatypes.JSONSlice[string](options),
		Position:    in.Position,
		IsPrimary:   in.IsPrimary,
	}
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		if _, _, err := ownedSection(ctx, tx, actor, sectionID, false); err != nil {
			return err
		}
		if err := tx.Fields().AddDef(ctx, def); err != nil {
			return dbErr("create", "field", err)
		}
		if def.IsPrimary {
			return clearOtherPrimaries(ctx, tx, def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

// UpdateFieldDef applies a partial update. The type can only change while no item holds a
// value for the field.
func (s *Service) UpdateFieldDef(ctx context.Context, actor Actor, id uuid.UUID, in UpdateFieldDefInput) (*models.SectionFieldDef, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	var updated *models.SectionFieldDef
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		def, _, err := ownedField(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if in.Type != nil && *in.Type != def.Type {
			count, err := tx.Fields().CountValues(ctx, def.ID)
			if err != nil {
				return dbErr("count", "field values", err)
			}
			if count > 0 {
				return errs.NewConflictError("the type of a field with values cannot change")
			}
			def.Type = *in.Type
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return errs.NewInvalidFieldError("name", "must not be blank")
			}
			def.Name = name
		}
		if in.Unit != nil {
			def.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.EnumOptions != nil {
			def.EnumOptions = datatypes.JSONSlice[string](cleanOptions(*in.EnumOptions))
		}
		if def.Type == models.FieldEnum && len(def.EnumOptions) == 0 {
			return errs.NewInvalidFieldError("enum_options", "enum fields need at least one option")
		}
		if def.Type != models.FieldEnum {
			def.EnumOptions = datatypes.JSONSlice[string]{}
		}
		if in.Position != nil {
			def.Position = *in.Position
		}
		if in.IsPrimary != nil {
			def.IsPrimary = *in.IsPrimary
		}
		if err := tx.Fields().UpdateDef(ctx, def); err != nil {
			return dbErr("update", "field", err)
		}
		if def.IsPrimary {
			if err := clearOtherPrimaries(ctx, tx, def); err != nil {
				return err
			}
		}
		updated = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteFieldDef removes a field definition and every value stored for it.
func (s *Service) DeleteFieldDef(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		def, _, err := ownedField(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := tx.Fields().DeleteDef(ctx, def.ID); err != nil {
			return dbErr("delete", "field", err)
		}
		return nil
	})
}

// SetItemFieldValue stores a value for one of the fields of the item's current section,
// replacing any previous value.
func (s *Service) SetItemFieldValue(ctx context.Context, actor Actor, itemID, fieldID uuid.UUID, raw string) (*models.BagListItemFieldValue, error) {
	var stored *models.BagListItemFieldValue
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		item, _, err := ownedItem(ctx, tx, actor, itemID, false)
		if err != nil {
			return err
		}
		def, _, err := ownedField(ctx, tx, actor, fieldID)
		if err != nil {
			return err
		}
		if !item.InSection(def.SectionID) {
			return errs.NewBadRequestError("the item is not in the field's section")
		}
		value, err := ParseFieldValue(*def, raw)
		if err != nil {
			return err
		}
		if value.Kind() != def.Type {
			return errs.NewInvalidFieldError("value", "does not match the field type")
		}

		fv := &models.BagListItemFieldValue{ItemID: item.ID, FieldID: def.ID}
		fv.Set(value)
		if err := tx.Fields().SaveValue(ctx, fv); err != nil {
			return dbErr("save", "field value", err)
		}
		stored = fv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ClearItemFieldValue removes the item's value for the field.
func (s *Service) ClearItemFieldValue(ctx context.Context, actor Actor, itemID, fieldID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx database.Store) error {
		item, _, err := ownedItem(ctx, tx, actor, itemID, false)
		if err != nil {
			return err
		}
		def, _, err := ownedField(ctx, tx, actor, fieldID)
		if err != nil {
			return err
		}
		if err := tx.Fields().DeleteValue(ctx, item.ID, def.ID); err != nil {
			return dbErr("delete", "field value", err)
		}
		return nil
	})
}

// ListItemFieldValues returns the fields of the item's current section and the item's values
// for them, provided actor may read the item's list.
func (s *Service) ListItemFieldValues(ctx context.Context, actor Actor, itemID uuid.UUID, token string) (*ItemFields, error) {
	item, err := s.store.Items().FindByID(ctx, itemID)
	if isMissing(err) {
		return nil, notFound("item")
	}
	if err != nil {
		return nil, dbErr("find", "item", err)
	}
	if _, err := s.readableBagList(ctx, s.store, actor, item.BagListID, token); err != nil {
		if errs.IsNotFound(err) {
			return nil, notFound("item")
		}
		return nil, err
	}

	out := &ItemFields{
		Fields: make([]*models.SectionFieldDef, 0),
		Values: make([]*models.BagListItemFieldValue, 0),
	}
	if item.SectionID == nil {
		return out, nil
	}
	defs, err := s.store.Fields().ListDefsBySection(ctx, *item.SectionID)
	if err != nil {
		return nil, dbErr("list", "fields", err)
	}
	values, err := s.store.Fields().ListValuesByItems(ctx, []uuid.UUID{item.ID})
	if err != nil {
		return nil, dbErr("list", "field values", err)
	}
	current := make(map[uuid.UUID]bool, len(defs))
	for _, d := range defs {
		current[d.ID] = true
	}
	out.Fields = defs
	for _, v := range values {
		if current[v.FieldID] {
			out.Values = append(out.Values, v)
		}
	}
	return out, nil
}
