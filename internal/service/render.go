package service

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/domain"
)

type Renderer interface {
	RenderHome(http.ResponseWriter)
}

type Render struct {
	homeTemplate *template.Template
	logger       *slog.Logger
}

func New(templatePath string, logger *slog.Logger) *Render {
	return &Render{
		homeTemplate: template.Must(template.ParseFiles(fmt.Sprintf("%s/%s", templatePath, "home.html"))),
		logger:       logger,
	}
}

type homeView struct {
	Title    string
	Statuses []domain.StatusView
}

func (r *Render) RenderHome(w http.ResponseWriter) {
	view := homeView{Title: "Youth Green Jobs Hub"}
	for _, s := range []domain.OrderStatus{
		domain.StatusPending, domain.StatusConfirmed, domain.StatusProcessing,
		domain.StatusShipped, domain.StatusDelivered, domain.StatusCancelled,
		domain.StatusRefunded,
	} {
		view.Statuses = append(view.Statuses, domain.ViewFor(s))
	}

	if err := r.homeTemplate.Execute(w, view); err != nil {
		r.logger.Error("can not execute home page", slog.String("error", err.Error()))
	}
}
