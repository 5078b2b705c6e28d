package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	fset := token.NewFileSet()
	root := filepath.Join("..", "modules")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		slash := filepath.ToSlash(path)
		module := moduleName(slash)
		layer := detectLayer(slash)
		if module == "" || layer == "" {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if !strings.Contains(importPath, "qrnav/internal/modules/") {
				continue
			}
			if violatesLayerRule(module, layer, importPath) {
				t.Fatalf("forbidden import in %s (%s): %s", slash, layer, importPath)
			}
			if violatesModuleDependency(module, importPath) {
				t.Fatalf("module %s must not depend on %s: %s", module, moduleName(importPath), slash)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk modules: %v", err)
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/") || strings.HasSuffix(path, "/port/in")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/") || strings.HasSuffix(path, "/dto")
}

func violatesLayerRule(module, layer, importPath string) bool {
	// import paths name the package directory itself, e.g. ".../route/service"
	importPath = strings.TrimSuffix(importPath, "/") + "/"
	sameModule := strings.Contains(importPath, "/internal/modules/"+module+"/")
	if !sameModule {
		if strings.Contains(importPath, "/service/") || strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") {
			return true
		}
		if isPortIn(importPath) || isDTO(importPath) {
			return false
		}
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/")
	case "domain":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") || strings.Contains(importPath, "/service/")
	default:
		return false
	}
}

// allowedModuleDeps lists which other modules each module may reach.
// navigate sits on top; the rest must stay usable without it.
var allowedModuleDeps = map[string][]string{
	"navigate": {"route", "scan", "voice"},
	"scan":     {"route"},
	"route":    {},
	"voice":    {},
}

func violatesModuleDependency(module, importPath string) bool {
	target := moduleName(importPath)
	if target == "" || target == module {
		return false
	}
	allowed, ok := allowedModuleDeps[module]
	if !ok {
		return true
	}
	for _, dep := range allowed {
		if dep == target {
			return false
		}
	}
	return true
}

func TestModuleDependencyRules(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module     string
		importPath string
		want       bool
	}{
		{"navigate", "qrnav/internal/modules/scan/port/in", false},
		{"navigate", "qrnav/internal/modules/voice/dto", false},
		{"scan", "qrnav/internal/modules/route/port/in", false},
		{"scan", "qrnav/internal/modules/navigate/port/in", true},
		{"scan", "qrnav/internal/modules/voice/port/in", true},
		{"route", "qrnav/internal/modules/scan/dto", true},
		{"voice", "qrnav/internal/modules/navigate/dto", true},
		{"voice", "qrnav/internal/modules/voice/domain", false},
		{"unlisted", "qrnav/internal/modules/route/port/in", true},
	}
	for _, tc := range cases {
		if got := violatesModuleDependency(tc.module, tc.importPath); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.module, tc.importPath, got, tc.want)
		}
	}
}

func TestLayerRules(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, importPath string
		want                      bool
	}{
		{"navigate", "adapter/out", "qrnav/internal/modules/route/port/in", false},
		{"navigate", "adapter/out", "qrnav/internal/modules/route/service", true},
		{"navigate", "adapter/in", "qrnav/internal/modules/navigate/service", true},
		{"navigate", "adapter/in", "qrnav/internal/modules/navigate/dto", false},
		{"scan", "domain", "qrnav/internal/modules/scan/usecase", true},
		{"scan", "usecase", "qrnav/internal/modules/scan/service", false},
	}
	for _, tc := range cases {
		if got := violatesLayerRule(tc.module, tc.layer, tc.importPath); got != tc.want {
			t.Fatalf("%s %s -> %s: got %v want %v", tc.module, tc.layer, tc.importPath, got, tc.want)
		}
	}
}
