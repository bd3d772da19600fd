package github

// langInfo carries static metadata for a known language
type langInfo struct {
	Extensions []string
	Encoding   string
}

// languageInfo maps lowercased language names to their usual file
// extensions and encoding. Languages missing here still sync; their
// metadata columns just stay empty.
var languageInfo = map[string]langInfo{
	"go":           {Extensions: []string{".go"}, Encoding: "utf-8"},
	"python":       {Extensions: []string{".py", ".pyi"}, Encoding: "utf-8"},
	"javascript":   {Extensions: []string{".js", ".mjs", ".cjs"}, Encoding: "utf-8"},
	"typescript":   {Extensions: []string{".ts", ".tsx"}, Encoding: "utf-8"},
	"rust":         {Extensions: []string{".rs"}, Encoding: "utf-8"},
	"java":         {Extensions: []string{".java"}, Encoding: "utf-8"},
	"kotlin":       {Extensions: []string{".kt", ".kts"}, Encoding: "utf-8"},
	"c":            {Extensions: []string{".c", ".h"}, Encoding: "utf-8"},
	"c++":          {Extensions: []string{".cpp", ".cc", ".cxx", ".hpp"}, Encoding: "utf-8"},
	"c#":           {Extensions: []string{".cs"}, Encoding: "utf-8"},
	"ruby":         {Extensions: []string{".rb"}, Encoding: "utf-8"},
	"php":          {Extensions: []string{".php"}, Encoding: "utf-8"},
	"swift":        {Extensions: []string{".swift"}, Encoding: "utf-8"},
	"objective-c":  {Extensions: []string{".m", ".mm"}, Encoding: "utf-8"},
	"scala":        {Extensions: []string{".scala"}, Encoding: "utf-8"},
	"shell":        {Extensions: []string{".sh", ".bash"}, Encoding: "utf-8"},
	"powershell":   {Extensions: []string{".ps1"}, Encoding: "utf-8"},
	"perl":         {Extensions: []string{".pl", ".pm"}, Encoding: "utf-8"},
	"lua":          {Extensions: []string{".lua"}, Encoding: "utf-8"},
	"r":            {Extensions: []string{".r", ".R"}, Encoding: "utf-8"},
	"dart":         {Extensions: []string{".dart"}, Encoding: "utf-8"},
	"elixir":       {Extensions: []string{".ex", ".exs"}, Encoding: "utf-8"},
	"erlang":       {Extensions: []string{".erl", ".hrl"}, Encoding: "utf-8"},
	"haskell":      {Extensions: []string{".hs"}, Encoding: "utf-8"},
	"clojure":      {Extensions: []string{".clj", ".cljs"}, Encoding: "utf-8"},
	"zig":          {Extensions: []string{".zig"}, Encoding: "utf-8"},
	"nim":          {Extensions: []string{".nim"}, Encoding: "utf-8"},
	"ocaml":        {Extensions: []string{".ml", ".mli"}, Encoding: "utf-8"},
	"html":         {Extensions: []string{".html", ".htm"}, Encoding: "utf-8"},
	"css":          {Extensions: []string{".css"}, Encoding: "utf-8"},
	"scss":         {Extensions: []string{".scss"}, Encoding: "utf-8"},
	"vue":          {Extensions: []string{".vue"}, Encoding: "utf-8"},
	"svelte":       {Extensions: []string{".svelte"}, Encoding: "utf-8"},
	"sql":          {Extensions: []string{".sql"}, Encoding: "utf-8"},
	"dockerfile":   {Extensions: []string{"Dockerfile"}, Encoding: "utf-8"},
	"makefile":     {Extensions: []string{"Makefile", ".mk"}, Encoding: "utf-8"},
	"yaml":         {Extensions: []string{".yml", ".yaml"}, Encoding: "utf-8"},
	"toml":         {Extensions: []string{".toml"}, Encoding: "utf-8"},
	"json":         {Extensions: []string{".json"}, Encoding: "utf-8"},
	"markdown":     {Extensions: []string{".md", ".markdown"}, Encoding: "utf-8"},
	"jupyter notebook": {Extensions: []string{".ipynb"}, Encoding: "utf-8"},
	"tex":          {Extensions: []string{".tex"}, Encoding: "utf-8"},
	"assembly":     {Extensions: []string{".asm", ".s"}, Encoding: "utf-8"},
	"groovy":       {Extensions: []string{".groovy"}, Encoding: "utf-8"},
	"vim script":   {Extensions: []string{".vim"}, Encoding: "utf-8"},
}
