package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanCapture scans a single capture from a database row
func ScanCapture(scanner Scanner) (*Capture, error) {
	capture := &Capture{}
	if err := scanner.Scan(&capture.ID, &capture.Content); err != nil {
		return nil, err
	}
	return capture, nil
}

// ScanCaptures scans every capture from database rows
func ScanCaptures(rows Rows) ([]*Capture, error) {
	return scanAll(rows, ScanCapture)
}

// ScanTimerEntry scans a single timer history row
func ScanTimerEntry(scanner Scanner) (*TimerEntry, error) {
	entry := &TimerEntry{}
	if err := scanner.Scan(&entry.ID, &entry.Task, &entry.Hours); err != nil {
		return nil, err
	}
	return entry, nil
}

// ScanTimerEntries scans every timer history row from database rows
func ScanTimerEntries(rows Rows) ([]*TimerEntry, error) {
	return scanAll(rows, ScanTimerEntry)
}

func scanAll[T any](rows Rows, scanOne func(Scanner) (*T, error)) ([]*T, error) {
	results := []*T{}
	for rows.Next() {
		item, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
