package reader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eighty4/wfguard/pkg/model"
	"github.com/eighty4/wfguard/pkg/schemaerr"
	"github.com/eighty4/wfguard/pkg/yamltree"
)

// repositoryWorkflowPattern matches the 5-segment reusable workflow
// reference: owner/repo/.github/workflows/<file>.(yml|yaml)@ref
var repositoryWorkflowPattern = regexp.MustCompile(`^([^/@]+)/([^/@]+)/\.github/workflows/([^/@]+\.ya?ml)@(.+)$`)

// repositoryActionPattern matches an action reference: owner/repo[/subdir...]@ref
var repositoryActionPattern = regexp.MustCompile(`^([^/@]+)/([^/@]+)(/[^@]+)?@(.+)$`)

func parseWorkflowCallSpecifier(node any, path schemaerr.Path, errs *schemaerr.Collector) model.WorkflowCallSpecifier {
	raw, ok := yamltree.AsStringLike(node)
	if !ok {
		errs.Add(schemaerr.ObjectJob, path.String(), "uses must be a string")
		return model.WorkflowCallSpecifier{}
	}

	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		return model.WorkflowCallSpecifier{
			Kind: model.WorkflowCallFilesystem,
			Raw:  raw,
			Path: raw,
		}
	}

	if m := repositoryWorkflowPattern.FindStringSubmatch(raw); m != nil {
		return model.WorkflowCallSpecifier{
			Kind:     model.WorkflowCallRepository,
			Raw:      raw,
			Owner:    m[1],
			Repo:     m[2],
			Filename: m[3],
			Ref:      m[4],
		}
	}

	errs.Add(schemaerr.ObjectJob, path.String(), fmt.Sprintf("`%s` is not a valid reusable workflow reference", raw))
	return model.WorkflowCallSpecifier{Kind: model.WorkflowCallRepository, Raw: raw}
}

func parseActionSpecifier(node any, path schemaerr.Path, errs *schemaerr.Collector) model.ActionSpecifier {
	raw, ok := yamltree.AsStringLike(node)
	if !ok {
		errs.Add(schemaerr.ObjectStep, path.String(), "uses must be a string")
		return model.ActionSpecifier{}
	}

	if strings.HasPrefix(raw, "docker://") {
		return model.ActionSpecifier{
			Kind: model.ActionDocker,
			Raw:  raw,
			URI:  strings.TrimPrefix(raw, "docker://"),
		}
	}

	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		return model.ActionSpecifier{
			Kind: model.ActionFilesystem,
			Raw:  raw,
			Path: raw,
		}
	}

	if m := repositoryActionPattern.FindStringSubmatch(raw); m != nil {
		return model.ActionSpecifier{
			Kind:         model.ActionRepository,
			Raw:          raw,
			Owner:        m[1],
			Repo:         m[2],
			Subdirectory: strings.TrimPrefix(m[3], "/"),
			Ref:          m[4],
		}
	}

	errs.Add(schemaerr.ObjectStep, path.String(), fmt.Sprintf("`%s` is not a valid action reference", raw))
	return model.ActionSpecifier{Kind: model.ActionRepository, Raw: raw}
}
