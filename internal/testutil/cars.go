package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
)

// CarsTable is the fixture table name.
const CarsTable = "cars"

// CarsColumns lists the fixture columns in table order.
var CarsColumns = []string{
	"name",
	"milespergal",
	"displacement",
	"horsepower",
	"weight",
	"acceleration",
	"year",
	"origin",
	"brand",
}

// carsSQLTypes are declared so both SQLite and DuckDB accept them.
var carsSQLTypes = []string{
	"VARCHAR",
	"DOUBLE",
	"DOUBLE",
	"INTEGER",
	"INTEGER",
	"DOUBLE",
	"INTEGER",
	"VARCHAR",
	"VARCHAR",
}

// carsRows is a 32-row sample of the auto-mpg data set. Every measure
// column has at least 20 distinct values; origin has three.
var carsRows = [][]any{
	{"chevrolet chevelle malibu", 18.0, 307.0, 130, 3504, 12.0, 70, "USA", "chevrolet"},
	{"buick skylark 320", 15.0, 350.0, 165, 3693, 11.5, 70, "USA", "buick"},
	{"amc rebel sst", 16.0, 304.0, 150, 3433, 12.2, 70, "USA", "amc"},
	{"toyota corona mark ii", 24.0, 113.0, 95, 2372, 15.0, 70, "Japan", "toyota"},
	{"volkswagen 1131 deluxe sedan", 26.0, 97.0, 46, 1835, 20.5, 70, "Europe", "volkswagen"},
	{"peugeot 504", 25.0, 110.0, 87, 2672, 17.5, 70, "Europe", "peugeot"},
	{"datsun pl510", 27.0, 97.0, 88, 2130, 14.5, 71, "Japan", "datsun"},
	{"pontiac catalina", 14.0, 455.0, 225, 4425, 10.0, 70, "USA", "pontiac"},
	{"plymouth duster", 22.0, 198.0, 95, 2833, 15.5, 70, "USA", "plymouth"},
	{"chevrolet vega 2300", 28.0, 140.0, 90, 2264, 15.5, 71, "USA", "chevrolet"},
	{"pontiac firebird", 19.0, 250.0, 100, 3282, 15.0, 71, "USA", "pontiac"},
	{"peugeot 304", 30.0, 79.0, 70, 2074, 19.5, 71, "Europe", "peugeot"},
	{"toyota corolla 1200", 31.0, 71.0, 65, 1773, 19.0, 71, "Japan", "toyota"},
	{"datsun 1200", 35.0, 72.0, 69, 1613, 18.0, 71, "Japan", "datsun"},
	{"chevrolet vega", 21.0, 140.0, 72, 2401, 19.5, 73, "USA", "chevrolet"},
	{"volkswagen type 3", 23.0, 97.0, 54, 2254, 23.5, 72, "Europe", "volkswagen"},
	{"audi 100ls", 20.0, 114.0, 91, 2582, 14.0, 73, "Europe", "audi"},
	{"ford country squire (sw)", 13.0, 400.0, 170, 4746, 12.0, 71, "USA", "ford"},
	{"fiat 128", 29.0, 68.0, 49, 1867, 19.5, 73, "Europe", "fiat"},
	{"toyota corolla 1200 deluxe", 32.0, 71.0, 65, 1836, 21.0, 74, "Japan", "toyota"},
	{"buick century", 17.0, 231.0, 110, 3907, 21.0, 75, "USA", "buick"},
	{"honda civic", 33.0, 91.0, 53, 1795, 17.4, 76, "Japan", "honda"},
	{"ford fiesta", 36.1, 98.0, 66, 1800, 14.4, 78, "USA", "ford"},
	{"pontiac sunbird coupe", 24.5, 151.0, 88, 2740, 16.0, 77, "USA", "pontiac"},
	{"datsun 510", 27.2, 119.0, 97, 2300, 14.7, 78, "Japan", "datsun"},
	{"audi 4000", 34.3, 97.0, 78, 2188, 15.8, 80, "Europe", "audi"},
	{"datsun 210 mpg", 37.0, 85.0, 65, 1975, 19.4, 81, "Japan", "datsun"},
	{"buick skylark", 26.6, 151.0, 84, 2635, 16.4, 81, "USA", "buick"},
	{"toyota corona liftback", 29.8, 134.0, 90, 2711, 15.5, 80, "Japan", "toyota"},
	{"plymouth horizon miser", 38.0, 105.0, 63, 2125, 14.7, 82, "USA", "plymouth"},
	{"vw pickup", 44.0, 97.0, 52, 2130, 24.6, 82, "Europe", "vw"},
	{"volkswagen scirocco", 31.5, 89.0, 71, 1990, 14.9, 79, "Europe", "volkswagen"},
}

// CarsRows returns a fresh copy of the fixture rows.
func CarsRows() [][]any {
	out := make([][]any, len(carsRows))
	for i, r := range carsRows {
		out[i] = append([]any(nil), r...)
	}
	return out
}

// CarsCount returns the number of fixture rows matching every predicate.
func CarsCount(match func(row map[string]any) bool) int {
	n := 0
	for _, r := range carsRows {
		row := make(map[string]any, len(r))
		for i, c := range CarsColumns {
			row[c] = r[i]
		}
		if match(row) {
			n++
		}
	}
	return n
}

// LoadCars creates the cars table on db and inserts every fixture row.
// Works with the sqlite3 and duckdb drivers.
func LoadCars(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := InsertCars(db); err != nil {
		t.Fatalf("load %s: %v", CarsTable, err)
	}
}

// InsertCars is LoadCars for callers without a *testing.T, such as the
// scenario harness.
func InsertCars(db *sql.DB) error {
	defs := make([]string, len(CarsColumns))
	marks := make([]string, len(CarsColumns))
	for i, c := range CarsColumns {
		defs[i] = fmt.Sprintf("%q %s", c, carsSQLTypes[i])
		marks[i] = "?"
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", CarsTable, strings.Join(defs, ", "))
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create %s: %w", CarsTable, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", CarsTable, strings.Join(marks, ", "))
	for i, r := range carsRows {
		if _, err := db.Exec(insert, r...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return nil
}
