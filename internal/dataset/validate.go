package dataset

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/treeindex"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkTrees converts the raw tree map to BOM types and reports field and
// identity problems.
func checkTrees(raw map[string][]core.TreeNode) (map[core.BomType][]core.TreeNode, []Problem) {
	var problems []Problem
	trees := make(map[core.BomType][]core.TreeNode, len(raw))

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		bt, err := core.ParseBomType(key)
		if err != nil {
			problems = append(problems, Problem{Path: "trees." + key, Message: "unknown BOM type"})
			continue
		}
		roots := raw[key]
		for i := range roots {
			problems = append(problems, structProblems(fmt.Sprintf("trees.%s[%d]", key, i), &roots[i])...)
		}
		problems = append(problems, duplicateNodes(string(bt), roots)...)
		if bt == core.BomRequirement {
			problems = append(problems, duplicateOwners(roots)...)
		}
		trees[bt] = roots
	}
	return trees, problems
}

func duplicateNodes(tree string, roots []core.TreeNode) []Problem {
	var problems []Problem
	seen := make(map[string]bool)
	walk(roots, func(n *core.TreeNode) {
		if n.ID == "" {
			return
		}
		if seen[n.ID] {
			problems = append(problems, Problem{Path: "trees." + tree, Message: fmt.Sprintf("duplicate node id %q", n.ID)})
		}
		seen[n.ID] = true
	})
	return problems
}

func duplicateOwners(roots []core.TreeNode) []Problem {
	var problems []Problem
	owner := make(map[string]string)
	walk(roots, func(n *core.TreeNode) {
		for _, req := range n.Requirements {
			if prev, ok := owner[req]; ok && prev != n.ID {
				problems = append(problems, Problem{
					Path:    "trees.requirement",
					Message: fmt.Sprintf("requirement %q owned by both %q and %q", req, prev, n.ID),
				})
				continue
			}
			owner[req] = n.ID
		}
	})
	return problems
}

// checkLinks warns about requirement links the requirement tree cannot
// resolve. Navigation still works for them through the fallback root.
func checkLinks(trees map[core.BomType][]core.TreeNode) []Problem {
	reqs := treeindex.New(trees[core.BomRequirement])

	var warnings []Problem
	if _, ok := reqs.Node(navigation.FallbackRequirementRoot); !ok && reqs.Len() > 0 {
		warnings = append(warnings, Problem{
			Path:    "trees.requirement",
			Message: fmt.Sprintf("no %s node; unresolved links open the first root", navigation.FallbackRequirementRoot),
		})
	}

	for _, bt := range core.AllBomTypes() {
		if bt == core.BomRequirement {
			continue
		}
		walk(trees[bt], func(n *core.TreeNode) {
			for _, req := range n.Requirements {
				if _, ok := reqs.OwnerOf(req); !ok {
					warnings = append(warnings, Problem{
						Path:    fmt.Sprintf("trees.%s.%s", bt, n.ID),
						Message: fmt.Sprintf("requirement %q has no owner", req),
					})
				}
			}
		})
	}
	return warnings
}

func checkCatalog(c *core.Catalog) []Problem {
	var problems []Problem
	seen := make(map[string]string)
	claim := func(path, kind, id string) {
		if id == "" {
			return
		}
		if prev, ok := seen[id]; ok {
			problems = append(problems, Problem{Path: path, Message: fmt.Sprintf("%s id %q already used by a %s", kind, id, prev)})
			return
		}
		seen[id] = kind
	}

	for i := range c.Categories {
		cat := &c.Categories[i]
		path := fmt.Sprintf("categories[%d]", i)
		problems = append(problems, structProblems(path, cat)...)
		claim(path, "category", cat.ID)
		for j := range cat.Instances {
			inst := &cat.Instances[j]
			ipath := fmt.Sprintf("%s.instances[%d]", path, j)
			claim(ipath, "instance", inst.ID)
			for k := range inst.Folders {
				folder := &inst.Folders[k]
				fpath := fmt.Sprintf("%s.folders[%d]", ipath, k)
				claim(fpath, "folder", folder.ID)
				for f := range folder.Files {
					file := &folder.Files[f]
					path := fmt.Sprintf("%s.files[%d]", fpath, f)
					claim(path, "file", file.ID)
					if file.DefaultConditionID != "" && len(file.Conditions) > 0 {
						if _, ok := file.Condition(file.DefaultConditionID); !ok {
							problems = append(problems, Problem{
								Path:    path,
								Message: fmt.Sprintf("default condition %q is not one of the file's conditions", file.DefaultConditionID),
							})
						}
					}
				}
			}
		}
	}
	return problems
}

// structProblems runs the struct tags of v and maps failures to problems.
func structProblems(path string, v any) []Problem {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Problem{{Path: path, Message: err.Error()}}
	}
	problems := make([]Problem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, Problem{
			Path:    path + trimRoot(fe.Namespace()),
			Message: fmt.Sprintf("failed %q check", fe.Tag()),
		})
	}
	return problems
}

// trimRoot drops the struct name validator puts in front of a namespace.
func trimRoot(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return "." + rest
	}
	return ""
}

func walk(nodes []core.TreeNode, fn func(*core.TreeNode)) {
	for i := range nodes {
		fn(&nodes[i])
		walk(nodes[i].Children, fn)
	}
}
