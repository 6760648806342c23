package evaluation_test

import (
	"fmt"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepgo/evaluation"
	"github.com/katalvlaran/deepgo/labels"
	"github.com/katalvlaran/deepgo/ontology"
)

func ExampleEvaluate() {
	g := ontology.NewGraph()
	_ = g.AddRelation("GO:A", "GO:ROOT")
	_ = g.AddRelation("GO:B", "GO:ROOT")
	_ = g.AddRelation("GO:C", "GO:ROOT")
	active, _ := labels.NewIndex([]string{"GO:A", "GO:B"})
	c, _ := labels.NewContext(g, "GO:ROOT", active)

	scores := mat.NewDense(2, 1, []float64{0.93, 0.12})
	truth := mat.NewDense(2, 1, []float64{1, 0})
	rep, _ := evaluation.Evaluate(scores, truth, [][]string{{"GO:A", "GO:C"}}, c,
		evaluation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	fmt.Printf("p=%.3f r=%.3f f1=%.3f\n", rep.Precision, rep.Recall, rep.F1)
	// Output: p=1.000 r=0.500 f1=0.667
}
