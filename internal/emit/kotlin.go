package emit

import (
	"bufio"
	"context"
	"io"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

var kotlinEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
)

// KotlinString escapes s for use inside a Kotlin string literal.
func KotlinString(s string) string {
	return kotlinEscaper.Replace(s)
}

var kotlinTmpl = template.Must(template.New("kotlin").Funcs(template.FuncMap{
	"kt":  KotlinString,
	"inc": func(i int) int { return i + 1 },
}).Parse(`package {{.Package}}

import kotlin.collections.buildList

data class Barangay(
    val code: String,
    val name: String
)

data class Municipality(
    val code: String,
    val name: String,
    val barangays: List<Barangay> = emptyList()
)

data class Province(
    val code: String,
    val name: String,
    val municipalities: List<Municipality>
)

object {{.Object}} {
    val provinces: List<Province> by lazy {
        buildList {
{{- range $i, $c := .Chunks}}
            addAll(getProvincesChunk{{inc $i}}())
{{- end}}
        }
    }
{{range $i, $c := .Chunks}}
    private fun getProvincesChunk{{inc $i}}(): List<Province> = listOf(
{{- range $j, $p := $c}}{{if $j}},{{end}}
        Province(
            code = "{{kt $p.Code}}",
            name = "{{kt $p.Name}}",
            municipalities = {{if $p.Municipalities}}listOf(
{{- range $k, $m := $p.Municipalities}}{{if $k}},{{end}}
{{- if $m.Barangays}}
                Municipality(
                    code = "{{kt $m.Code}}",
                    name = "{{kt $m.Name}}",
                    barangays = listOf(
{{- range $l, $b := $m.Barangays}}{{if $l}},{{end}}
                        Barangay("{{kt $b.Code}}", "{{kt $b.Name}}")
{{- end}}
                    )
                )
{{- else}}
                Municipality("{{kt $m.Code}}", "{{kt $m.Name}}")
{{- end}}
{{- end}}
            ){{else}}emptyList(){{end}}
        )
{{- end}}
    )
{{end}}}
`))

type kotlinData struct {
	Package string
	Object  string
	Chunks  [][]psgc.Province
}

// KotlinEmitter writes the tree as a Kotlin source file declaring the data
// classes and a lazily assembled province list. Each chunk becomes its own
// function to stay under the JVM method size limit.
type KotlinEmitter struct {
	opts Options
}

// Emit implements Emitter.
func (k *KotlinEmitter) Emit(ctx context.Context, tree *psgc.Tree, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "emit: kotlin")
	}

	data := kotlinData{
		Package: k.opts.KotlinPackage,
		Object:  k.opts.KotlinObject,
		Chunks:  Chunk(tree.Provinces, k.opts.ChunkSize),
	}

	bw := bufio.NewWriter(w)
	if err := kotlinTmpl.Execute(bw, data); err != nil {
		return eris.Wrap(err, "emit: render kotlin")
	}
	return eris.Wrap(bw.Flush(), "emit: flush kotlin")
}
