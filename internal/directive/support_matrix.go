// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package directive

import (
	"grimm.is/supportmatrix/internal/docnode"
	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/matrix"
	"grimm.is/supportmatrix/internal/render"
)

// SupportMatrixName is the name documents invoke the directive by.
const SupportMatrixName = "support_matrix"

// SupportMatrix renders the matrix file named by its only argument.
type SupportMatrix struct{}

func (SupportMatrix) Name() string           { return SupportMatrixName }
func (SupportMatrix) RequiredArguments() int { return 1 }

// Run loads the matrix file, notes it as a dependency and renders it.
func (SupportMatrix) Run(env *Env, args []string) ([]*docnode.Node, error) {
	if len(args) != 1 {
		return nil, errors.Errorf(errors.KindValidation,
			"%s directive takes exactly one argument, got %d", SupportMatrixName, len(args))
	}

	rel, full := env.RelFn2Path(args[0])
	env.NoteDependency(rel)

	m, err := matrix.Load(full)
	if err != nil {
		return nil, errors.Attr(err, "docname", env.DocName)
	}
	return render.Build(m), nil
}
