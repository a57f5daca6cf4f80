package handlers

import (
	"html/template"
	"log"
	"net/http"
	"path/filepath"
)

// renderPage renders one of the static templates with the given data.
func renderPage(w http.ResponseWriter, logger *log.Logger, projectRoot, name string, data map[string]interface{}) {
	tmpl, err := template.ParseFiles(filepath.Join(projectRoot, "static", name))
	if err != nil {
		logger.Printf("Error loading template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		logger.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func renderError(w http.ResponseWriter, logger *log.Logger, code int, title, message, projectRoot string) {
	w.WriteHeader(code)
	tmpl, err := template.ParseFiles(filepath.Join(projectRoot, "static", "error.html"))
	if err != nil {
		http.Error(w, message, code)
		return
	}
	data := map[string]interface{}{
		"Code":    code,
		"Title":   title,
		"Message": message,
	}
	if err := tmpl.Execute(w, data); err != nil {
		logger.Printf("Error rendering template error.html: %v", err)
	}
}
