package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"popcorn/models"
)

//go:embed templates static
var assets embed.FS

var (
	pageTmpl *template.Template
	staticFS fs.FS
)

func init() {
	var err error
	pageTmpl, err = template.New("popcorn").Funcs(GetFuncMap()).ParseFS(assets,
		"templates/layouts/*.html",
		"templates/components/*.html",
	)
	if err != nil {
		log.Fatal("Failed to parse templates:", err)
	}
	staticFS, err = fs.Sub(assets, "static")
	if err != nil {
		log.Fatal("Failed to open static assets:", err)
	}
}

func GetFuncMap() template.FuncMap {
	return template.FuncMap{
		"stars": func() []int {
			s := make([]int, 0, models.MaxUserRating)
			for n := models.MinUserRating; n <= models.MaxUserRating; n++ {
				s = append(s, n)
			}
			return s
		},
	}
}

// render writes the named template, or a 500 if it fails before any output.
func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.ExecuteTemplate(w, name, data); err != nil {
		internalError(w, err)
	}
}
