package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Reformat turns train and test rows into train, validation and test
// bundles. The first int((1-validationFraction)*len(train)) rows become the
// training partition and the rest the validation partition, in their given
// order. Only the test bundle carries the full term sets.
//
// Every label vector must have exactly labelWidth entries, the size of the
// active index, and all examples of the three partitions must share one
// representation width. The first offender is returned as a
// *ShapeMismatchError and no bundle is produced.
func Reformat(train, test []Example, validationFraction float64, labelWidth int, opts ...Option) (trainB, valB, testB *Bundle, err error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if labelWidth < 0 {
		return nil, nil, nil, fmt.Errorf("%w: %d", ErrLabelWidth, labelWidth)
	}
	if validationFraction < 0 || validationFraction >= 1 {
		return nil, nil, nil, fmt.Errorf("%w: validation fraction %v not in [0,1)", ErrFraction, validationFraction)
	}
	if o.maxLen <= 0 {
		return nil, nil, nil, fmt.Errorf("%w: %d", ErrMaxLen, o.maxLen)
	}
	if err = checkShapes(labelWidth, train, test); err != nil {
		return nil, nil, nil, err
	}

	n := int((1 - validationFraction) * float64(len(train)))
	if trainB, err = stack(train[:n], &o, false); err != nil {
		return nil, nil, nil, err
	}
	if valB, err = stack(train[n:], &o, false); err != nil {
		return nil, nil, nil, err
	}
	if testB, err = stack(test, &o, true); err != nil {
		return nil, nil, nil, err
	}
	o.logger.Debug("dataset reformatted",
		"train", trainB.Len(), "validation", valB.Len(), "test", testB.Len(),
		"max_len", o.maxLen, "labels", labelWidth)

	return trainB, valB, testB, nil
}

// checkShapes takes the representation width from the first example and
// checks every example against it and against labelWidth.
func checkShapes(labelWidth int, parts ...[]Example) error {
	repWidth := -1
	for _, rows := range parts {
		for _, ex := range rows {
			if repWidth < 0 {
				repWidth = len(ex.Representation)
			}
			if len(ex.Representation) != repWidth {
				return &ShapeMismatchError{Accession: ex.Accession, Field: "representation", Want: repWidth, Got: len(ex.Representation)}
			}
			if len(ex.Labels) != labelWidth {
				return &ShapeMismatchError{Accession: ex.Accession, Field: "labels", Want: labelWidth, Got: len(ex.Labels)}
			}
		}
	}

	return nil
}

// stack builds one bundle from rows whose shapes are already checked.
func stack(rows []Example, o *options, withTerms bool) (*Bundle, error) {
	b := &Bundle{Accessions: make([]string, len(rows))}
	seqs := make([][]int32, len(rows))
	for i, ex := range rows {
		b.Accessions[i] = ex.Accession
		seqs[i] = ex.Sequence
	}
	var err error
	if b.Sequences, err = PadSequences(seqs, o.maxLen, o.padding, o.truncating); err != nil {
		return nil, err
	}
	if withTerms {
		b.Terms = make([][]string, len(rows))
		for i, ex := range rows {
			b.Terms[i] = append([]string(nil), ex.Terms...)
		}
	}
	if len(rows) == 0 {
		return b, nil
	}

	if w := len(rows[0].Representation); w > 0 {
		b.Representations = mat.NewDense(len(rows), w, nil)
		for i, ex := range rows {
			b.Representations.SetRow(i, ex.Representation)
		}
	}
	if w := len(rows[0].Labels); w > 0 {
		byExample := mat.NewDense(len(rows), w, nil)
		for i, ex := range rows {
			byExample.SetRow(i, ex.Labels)
		}
		b.Labels = TransposeLabels(byExample)
	}

	return b, nil
}

// TransposeLabels returns a dense copy of m transposed. Applying it twice
// gives back a matrix equal to m. A nil m gives nil.
func TransposeLabels(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	out := mat.NewDense(c, r, nil)
	out.Copy(m.T())

	return out
}
