package datasource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/roach88/vislens/internal/ir"
)

// FromArrow copies an Arrow record batch into a MemTable. Column order
// follows the record schema. Supported column types: signed and unsigned
// integers, float32/64, string, large string, boolean, timestamp, date32
// and date64. The record is not retained.
func FromArrow(name string, rec arrow.RecordBatch) (*MemTable, error) {
	columns, err := arrowColumns(rec.Schema())
	if err != nil {
		return nil, err
	}
	return NewMemTable(name, columns, appendArrowRows(nil, rec))
}

// ReadArrowIPC reads every record batch of an Arrow IPC stream into one
// MemTable.
func ReadArrowIPC(name string, r io.Reader) (*MemTable, error) {
	rdr, err := ipc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer rdr.Release()

	columns, err := arrowColumns(rdr.Schema())
	if err != nil {
		return nil, err
	}

	var cells [][]any
	for rdr.Next() {
		cells = appendArrowRows(cells, rdr.RecordBatch())
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("read arrow stream: %w", err)
	}
	return NewMemTable(name, columns, cells)
}

// OpenArrowFile loads an Arrow IPC stream file. The table is named after
// the file unless name is set.
func OpenArrowFile(path, name string) (*MemTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ReadArrowIPC(name, f)
}

func arrowColumns(schema *arrow.Schema) ([]Column, error) {
	columns := make([]Column, len(schema.Fields()))
	for c, field := range schema.Fields() {
		kind, err := arrowKind(field.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		columns[c] = Column{Name: field.Name, Kind: kind}
	}
	return columns, nil
}

// appendArrowRows appends the rows of rec to cells.
func appendArrowRows(cells [][]any, rec arrow.RecordBatch) [][]any {
	ncols := int(rec.NumCols())
	for r := 0; r < int(rec.NumRows()); r++ {
		row := make([]any, ncols)
		for c := 0; c < ncols; c++ {
			col := rec.Column(c)
			if col.IsNull(r) {
				continue
			}
			row[c] = arrowCell(col, r)
		}
		cells = append(cells, row)
	}
	return cells
}

func arrowKind(dt arrow.DataType) (Kind, error) {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return KindInt, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return KindFloat, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return KindString, nil
	case arrow.BOOL:
		return KindBool, nil
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return KindTime, nil
	default:
		return KindUnknown, fmt.Errorf("unsupported arrow type %s", dt)
	}
}

// arrowCell returns the Go value of row r. The array type has already been
// checked by arrowKind.
func arrowCell(col arrow.Array, r int) any {
	switch a := col.(type) {
	case *array.Int8:
		return a.Value(r)
	case *array.Int16:
		return a.Value(r)
	case *array.Int32:
		return a.Value(r)
	case *array.Int64:
		return a.Value(r)
	case *array.Uint8:
		return a.Value(r)
	case *array.Uint16:
		return a.Value(r)
	case *array.Uint32:
		return a.Value(r)
	case *array.Uint64:
		return a.Value(r)
	case *array.Float32:
		return a.Value(r)
	case *array.Float64:
		return a.Value(r)
	case *array.String:
		return a.Value(r)
	case *array.LargeString:
		return a.Value(r)
	case *array.Boolean:
		return a.Value(r)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(r).ToTime(unit)
	case *array.Date32:
		return a.Value(r).ToTime()
	case *array.Date64:
		return a.Value(r).ToTime()
	default:
		return ir.Null{}
	}
}
