package dbf

import (
	"fmt"

	"eclass/reconciler/gradebook"
)

// Grade sheet layout: student ID in field 5, grade in field 2 and remark in
// field 3 (zero-based).
const (
	IDField      = 5
	GradeField   = 2
	RemarksField = 3
)

// ApplyResult reports what ApplyGrades did.
type ApplyResult struct {
	Matched  int
	Failures []error
}

// ApplyGrades writes grades into every live record whose ID is present in
// grades. Empty grade or remark values leave the field untouched. A record
// that cannot be written is reported in Failures and left unchanged; the
// other records are still updated.
func ApplyGrades(t *Table, grades gradebook.Grades) (ApplyResult, error) {
	for _, i := range []int{IDField, GradeField, RemarksField} {
		if i >= len(t.Fields) {
			return ApplyResult{}, fieldIndexError(i, len(t.Fields))
		}
	}

	var res ApplyResult
	for i := 0; i < t.Len(); i++ {
		rec := t.Record(i)
		if rec.Deleted() {
			continue
		}

		id, err := rec.Value(IDField)
		if err != nil {
			res.Failures = append(res.Failures, err)
			continue
		}
		entry, ok := grades[id]
		if !ok {
			continue
		}

		err = t.Update(i, func(r *Record) error {
			if entry.Grade != "" {
				if err := r.Set(GradeField, entry.Grade); err != nil {
					return err
				}
			}
			if entry.Remarks != "" {
				if err := r.Set(RemarksField, entry.Remarks); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			res.Failures = append(res.Failures, fmt.Errorf("failed to update student %s: %w", id, err))
			continue
		}
		res.Matched++
	}

	return res, nil
}
