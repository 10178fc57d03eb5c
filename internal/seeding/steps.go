package seeding

import (
	"context"
	"fmt"

	"github.com/EmpoweredVote/demo-seeder/internal/fixtures"
	"gorm.io/gorm"
)

// step seeds one table. Steps run in an order derived from dependsOn, so a
// table is never filled before the tables it references.
type step struct {
	name      string
	dependsOn []string
	model     any
	seed      func(ctx context.Context, tx *gorm.DB, set fixtures.Set) (TableSummary, error)
}

// plan orders steps so every step follows its dependencies. Among steps that
// are ready at the same time, declaration order wins.
func plan(steps []step) ([]step, error) {
	index := make(map[string]int, len(steps))
	for i, s := range steps {
		if _, dup := index[s.name]; dup {
			return nil, fmt.Errorf("step %q declared twice", s.name)
		}
		index[s.name] = i
	}

	pending := make([]int, len(steps))
	for i, s := range steps {
		for _, dep := range s.dependsOn {
			if _, ok := index[dep]; !ok {
				return nil, fmt.Errorf("step %q depends on unknown step %q", s.name, dep)
			}
			pending[i]++
		}
	}

	done := make([]bool, len(steps))
	ordered := make([]step, 0, len(steps))
	for len(ordered) < len(steps) {
		next := -1
		for i := range steps {
			if !done[i] && pending[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("steps have a dependency cycle")
		}

		done[next] = true
		ordered = append(ordered, steps[next])
		for i, s := range steps {
			for _, dep := range s.dependsOn {
				if dep == steps[next].name {
					pending[i]--
				}
			}
		}
	}
	return ordered, nil
}
