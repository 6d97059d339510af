// Package main checks that a revision of the SkillSwap API document does not break
// clients written against an older one.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"skillswap/docs"

	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]struct{}{
	"get":    {},
	"put":    {},
	"post":   {},
	"delete": {},
	"patch":  {},
}

type operation struct {
	Responses map[string]struct{}
	// Required holds "in:name" for every required parameter.
	Required map[string]struct{}
	Secured  bool
}

type apiDoc struct {
	BasePath string
	Paths    map[string]map[string]operation
}

func main() {
	basePath := flag.String("base", "", "base swagger document (JSON or YAML)")
	revisionPath := flag.String("revision", "", "revision swagger document; defaults to the document compiled into this binary")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>]")
		os.Exit(2)
	}

	base, err := loadDoc(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base document: %v\n", err)
		os.Exit(1)
	}

	var revision apiDoc
	if strings.TrimSpace(*revisionPath) == "" {
		revision, err = parseDoc([]byte(docs.SwaggerInfo.ReadDoc()))
	} else {
		revision, err = loadDoc(*revisionPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision document: %v\n", err)
		os.Exit(1)
	}

	issues := compare(base, revision)
	if len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}

	fmt.Printf("openapi compatibility check passed (%d paths)\n", len(base.Paths))
}

func loadDoc(path string) (apiDoc, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return apiDoc{}, err
	}
	return parseDoc(raw)
}

// parseDoc accepts swagger 2.0 as JSON or YAML; JSON decodes as YAML.
func parseDoc(raw []byte) (apiDoc, error) {
	doc := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return apiDoc{}, err
	}

	pathsMap, ok := toMap(doc["paths"])
	if !ok {
		return apiDoc{}, errors.New("missing top-level paths object")
	}

	out := apiDoc{Paths: make(map[string]map[string]operation)}
	out.BasePath, _ = doc["basePath"].(string)
	_, globalSecurity := doc["security"]

	for pathKey, pathEntry := range pathsMap {
		pathOps, ok := toMap(pathEntry)
		if !ok {
			continue
		}

		ops := make(map[string]operation)
		for methodKey, methodEntry := range pathOps {
			method := strings.ToLower(strings.TrimSpace(methodKey))
			if _, supported := supportedMethods[method]; !supported {
				continue
			}
			m, ok := toMap(methodEntry)
			if !ok {
				continue
			}

			op := operation{
				Responses: make(map[string]struct{}),
				Required:  make(map[string]struct{}),
				Secured:   globalSecurity,
			}
			if sec, exists := m["security"]; exists {
				list, _ := sec.([]interface{})
				op.Secured = len(list) > 0
			}
			if responses, ok := toMap(m["responses"]); ok {
				for code := range responses {
					if c := strings.ToLower(strings.TrimSpace(code)); c != "" {
						op.Responses[c] = struct{}{}
					}
				}
			}
			params, _ := m["parameters"].([]interface{})
			for _, p := range params {
				pm, ok := toMap(p)
				if !ok {
					continue
				}
				if req, _ := pm["required"].(bool); req {
					in, _ := pm["in"].(string)
					name, _ := pm["name"].(string)
					op.Required[in+":"+name] = struct{}{}
				}
			}
			ops[method] = op
		}

		if len(ops) > 0 {
			out.Paths[pathKey] = ops
		}
	}

	return out, nil
}

func toMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func compare(base, revision apiDoc) []string {
	var issues []string

	if base.BasePath != revision.BasePath {
		issues = append(issues, fmt.Sprintf("basePath changed: %q -> %q", base.BasePath, revision.BasePath))
	}

	for path, baseOps := range base.Paths {
		revOps, ok := revision.Paths[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseOp := range baseOps {
			revOp, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			op := strings.ToUpper(method) + " " + path

			for code := range baseOp.Responses {
				if _, ok := revOp.Responses[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", op, strings.ToUpper(code)))
				}
			}
			for param := range revOp.Required {
				if _, ok := baseOp.Required[param]; !ok {
					issues = append(issues, fmt.Sprintf("new required parameter: %s -> %s", op, param))
				}
			}
			if revOp.Secured && !baseOp.Secured {
				issues = append(issues, fmt.Sprintf("operation now requires auth: %s", op))
			}
		}
	}

	sort.Strings(issues)
	return issues
}
