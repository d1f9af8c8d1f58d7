package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/nao1215/trialtab/internal/table"
)

// Column names shared by both datasets.
const (
	ColumnUID         = "uid"
	ColumnScene       = "scene"
	ColumnCount       = "count"
	ColumnGrouped     = "grouped"
	ColumnNoticed     = "noticed"
	ColumnDescription = "description"
	ColumnRT          = "rt"
	ColumnOrder       = "order"
	ColumnParent      = "parent"
)

// CountSchema returns the schema of the counts dataset.
func CountSchema() table.Schema {
	return table.MustSchema(
		table.Column{Name: ColumnUID, Kind: table.Uint16},
		table.Column{Name: ColumnScene, Kind: table.Uint8},
		table.Column{Name: ColumnCount, Kind: table.Uint8},
		table.Column{Name: ColumnRT, Kind: table.Float32},
		table.Column{Name: ColumnOrder, Kind: table.Uint8},
	)
}

// NoticeSchema returns the schema of the noticed dataset.
func NoticeSchema() table.Schema {
	return table.MustSchema(
		table.Column{Name: ColumnUID, Kind: table.Uint16},
		table.Column{Name: ColumnScene, Kind: table.Uint8},
		table.Column{Name: ColumnGrouped, Kind: table.Bool},
		table.Column{Name: ColumnNoticed, Kind: table.Bool},
		table.Column{Name: ColumnDescription, Kind: table.String},
		table.Column{Name: ColumnRT, Kind: table.Float32},
		table.Column{Name: ColumnOrder, Kind: table.Uint8},
	)
}

// ParentColumn returns the enum column derived from grouped.
func ParentColumn() table.Column {
	return table.Column{Name: ColumnParent, Kind: table.Enum, Levels: ParentLevels()}
}

// CountRow is one counting trial.
type CountRow struct {
	UID   uint16
	Scene uint8
	Count uint8
	RT    float32
	Order uint8
}

// Values returns the row in CountSchema column order.
func (r CountRow) Values() []any {
	return []any{r.UID, r.Scene, r.Count, r.RT, r.Order}
}

// NewCountRow builds a count row from a slider response event.
// Every missing or out-of-range field is reported in the returned error.
func NewCountRow(uid uint16, ev Event) (CountRow, error) {
	count, err := ev.ResponseNumber()
	if err != nil {
		return CountRow{}, err
	}

	var errs []error
	row := CountRow{UID: uid}
	row.Scene = toUint8(ColumnScene, ev.TrialID, &errs)
	row.Count = toUint8(ColumnCount, count, &errs)
	row.RT = toFloat32(ColumnRT, ev.RT, &errs)
	row.Order = toUint8(ColumnOrder, ev.TrialIndex, &errs)

	if len(errs) > 0 {
		return CountRow{}, errors.Join(errs...)
	}
	return row, nil
}

// NoticeRow is the single noticing trial of a subject.
type NoticeRow struct {
	UID         uint16
	Scene       uint8
	Grouped     bool
	Noticed     bool
	Description string
	RT          float32
	Order       uint8
}

// Values returns the row in NoticeSchema column order.
func (r NoticeRow) Values() []any {
	return []any{r.UID, r.Scene, r.Grouped, r.Noticed, r.Description, r.RT, r.Order}
}

// Parent returns the derived category of the row.
func (r NoticeRow) Parent() Parent {
	return ParentOf(r.Grouped)
}

// NoticeBuilder accumulates the notice row of one subject while its
// timeline is scanned. A button response (re)opens the row; a survey
// response fills in the description. Finalize validates completeness.
type NoticeBuilder struct {
	uid         uint16
	opened      bool
	scene       *float64
	rt          *float64
	order       *float64
	grouped     bool
	noticed     bool
	description *string
}

// NewNoticeBuilder creates a builder for the subject with the given uid.
func NewNoticeBuilder(uid uint16) *NoticeBuilder {
	return &NoticeBuilder{uid: uid}
}

// SetResponse records a button response, replacing any earlier one.
// When the target was not noticed the description defaults to empty.
func (b *NoticeBuilder) SetResponse(ev Event, noticed, grouped bool) {
	b.opened = true
	b.scene = ev.TrialID
	b.rt = ev.RT
	b.order = ev.TrialIndex
	b.noticed = noticed
	b.grouped = grouped
	if !noticed {
		empty := ""
		b.description = &empty
	}
}

// SetDescription records the free-text description of what was noticed.
func (b *NoticeBuilder) SetDescription(desc string) {
	b.description = &desc
}

// Finalize returns the completed row, or an error listing every missing
// or out-of-range field.
func (b *NoticeBuilder) Finalize() (NoticeRow, error) {
	if !b.opened {
		return NoticeRow{}, ErrNoNoticeResponse
	}

	var errs []error
	row := NoticeRow{
		UID:     b.uid,
		Grouped: b.grouped,
		Noticed: b.noticed,
	}
	row.Scene = toUint8(ColumnScene, b.scene, &errs)
	row.RT = toFloat32(ColumnRT, b.rt, &errs)
	row.Order = toUint8(ColumnOrder, b.order, &errs)
	if b.description == nil {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, ColumnDescription))
	} else {
		row.Description = *b.description
	}

	if len(errs) > 0 {
		return NoticeRow{}, errors.Join(errs...)
	}
	return row, nil
}

// CountRows converts a table with CountSchema into rows.
func CountRows(t *table.Table) ([]CountRow, error) {
	if !t.Schema().Equal(CountSchema()) {
		return nil, fmt.Errorf("counts: %w", table.ErrHeader)
	}
	rows := make([]CountRow, t.Len())
	for i := range rows {
		v := t.Row(i)
		rows[i] = CountRow{
			UID:   v[0].(uint16),  //nolint:forcetypeassert // schema checked above
			Scene: v[1].(uint8),   //nolint:forcetypeassert // schema checked above
			Count: v[2].(uint8),   //nolint:forcetypeassert // schema checked above
			RT:    v[3].(float32), //nolint:forcetypeassert // schema checked above
			Order: v[4].(uint8),   //nolint:forcetypeassert // schema checked above
		}
	}
	return rows, nil
}

// NoticeRows converts a table with NoticeSchema into rows.
func NoticeRows(t *table.Table) ([]NoticeRow, error) {
	if !t.Schema().Equal(NoticeSchema()) {
		return nil, fmt.Errorf("noticed: %w", table.ErrHeader)
	}
	rows := make([]NoticeRow, t.Len())
	for i := range rows {
		v := t.Row(i)
		rows[i] = NoticeRow{
			UID:         v[0].(uint16),  //nolint:forcetypeassert // schema checked above
			Scene:       v[1].(uint8),   //nolint:forcetypeassert // schema checked above
			Grouped:     v[2].(bool),    //nolint:forcetypeassert // schema checked above
			Noticed:     v[3].(bool),    //nolint:forcetypeassert // schema checked above
			Description: v[4].(string),  //nolint:forcetypeassert // schema checked above
			RT:          v[5].(float32), //nolint:forcetypeassert // schema checked above
			Order:       v[6].(uint8),   //nolint:forcetypeassert // schema checked above
		}
	}
	return rows, nil
}

// toUint8 converts an optional JSON number to uint8, recording failures in errs.
func toUint8(name string, v *float64, errs *[]error) uint8 {
	switch {
	case v == nil:
		*errs = append(*errs, fmt.Errorf("%w: %s", ErrMissingField, name))
	case *v != math.Trunc(*v) || *v < 0 || *v > math.MaxUint8:
		*errs = append(*errs, fmt.Errorf("%s: %w: %v", name, table.ErrOutOfRange, *v))
	default:
		return uint8(*v)
	}
	return 0
}

// toFloat32 converts an optional JSON number to float32, recording failures in errs.
func toFloat32(name string, v *float64, errs *[]error) float32 {
	if v == nil {
		*errs = append(*errs, fmt.Errorf("%w: %s", ErrMissingField, name))
		return 0
	}
	return float32(*v)
}
