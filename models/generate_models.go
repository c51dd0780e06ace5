package models

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Schema tooling, both run from main and exit afterwards:

GENERATE_MODELS=true writes typed query helpers for every model into ./generated.

GENERATE_COLUMN_REPORT=true lists, per table, the database columns that no model field maps to.
Such columns are usually left over from a manual migration, e.g.

	table=baglists missing=[legacy_owner]
*/

// AllModels lists every persisted model in dependency order, for migration and code generation.
func AllModels() []interface{} {
	return []interface{}{
		&Profile{},
		&ExternalProduct{},
		&BagList{},
		&BagListSection{},
		&BagListItem{},
		&BagListItemProductSnapshot{},
		&Tag{},
		&BagListTag{},
		&Facet{},
		&FacetOption{},
		&BagListFacetValue{},
		&SectionFieldDef{},
		&BagListItemFieldValue{},
		&FavoriteBagList{},
		&FavoriteProduct{},
	}
}

// GenerateQueries writes gorm/gen query helpers for AllModels into outPath.
func GenerateQueries(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(AllModels()...)
	g.Execute()

	log.Info().Str("out", outPath).Int("models", len(AllModels())).Msg("Query helpers generated")
	return nil
}

// ColumnReport maps each existing table to the columns none of its model's fields cover.
// Tables that are fully covered or not created yet are left out.
func ColumnReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	for _, model := range AllModels() {
		tabler, ok := model.(interface{ TableName() string })
		if !ok {
			continue
		}
		table := tabler.TableName()

		var columns []string
		err := db.Raw(`SELECT column_name FROM information_schema.columns
			WHERE table_name = ? AND table_schema = CURRENT_SCHEMA()
			ORDER BY ordinal_position`, table).Scan(&columns).Error
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", table, err)
		}

		if missing := uncoveredColumns(columns, ModelColumns(model)); len(missing) > 0 {
			report[table] = missing
		}
	}
	return report, nil
}

// LogColumnReport writes one line per table with uncovered columns.
func LogColumnReport(report map[string][]string) {
	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		log.Warn().Str("table", table).Strs("missing", report[table]).Msg("Columns not mapped by model")
		total += len(report[table])
	}
	log.Info().Int("tables", len(tables)).Int("columns", total).Msg("Column report complete")
}

// ModelColumns returns the column names a model maps, walking embedded structs.
// Relation fields carry no db tag and are skipped.
func ModelColumns(model interface{}) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return collectColumns(t)
}

func collectColumns(t reflect.Type) []string {
	var columns []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, collectColumns(field.Type)...)
			continue
		}

		// an explicit gorm column wins over the db tag
		if name := gormColumn(field.Tag.Get("gorm")); name != "" {
			columns = append(columns, name)
			continue
		}
		if dbTag := field.Tag.Get("db"); dbTag != "" && dbTag != "-" {
			columns = append(columns, dbTag)
		}
	}
	return columns
}

func gormColumn(tag string) string {
	for _, part := range strings.Split(tag, ";") {
		if name, ok := strings.CutPrefix(strings.TrimSpace(part), "column:"); ok {
			return name
		}
	}
	return ""
}

func uncoveredColumns(dbColumns, modelColumns []string) []string {
	mapped := make(map[string]bool, len(modelColumns))
	for _, c := range modelColumns {
		mapped[c] = true
	}

	var missing []string
	for _, c := range dbColumns {
		if !mapped[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
