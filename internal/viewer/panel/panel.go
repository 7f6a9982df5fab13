package panel

import (
	"errors"
	"fmt"

	"house-viewer/internal/viewer/scene"
)

var ErrControllerNotFound = errors.New("controller not found")

// ============================================================
// Debug panel
// ============================================================

// Controller - чекбокс, привязанный к флагу видимости.
// Section == "" означает общий переключатель части.
type Controller struct {
	Label   string `json:"label"`
	Part    string `json:"part"`
	Section string `json:"section,omitempty"`
}

func (c Controller) Master() bool {
	return c.Section == ""
}

type Folder struct {
	Title       string       `json:"title"`
	Controllers []Controller `json:"controllers"`
}

type Panel struct {
	house   *scene.House
	folders []Folder
}

// New регистрирует по папке на часть: общий переключатель и по чекбоксу
// на каждую секцию.
func New(house *scene.House) *Panel {
	p := &Panel{house: house}
	for _, part := range house.Parts() {
		folder := Folder{
			Title:       part.Name,
			Controllers: []Controller{{Label: "Show " + part.Name, Part: part.Name}},
		}
		for _, s := range part.Sections {
			folder.Controllers = append(folder.Controllers, Controller{Label: s.Name, Part: part.Name, Section: s.Name})
		}
		p.folders = append(p.folders, folder)
	}
	return p
}

func (p *Panel) Folders() []Folder {
	return p.folders
}

// Find ищет контроллер по заголовку папки и подписи.
func (p *Panel) Find(folder, label string) (Controller, error) {
	for _, f := range p.folders {
		if f.Title != folder {
			continue
		}
		for _, c := range f.Controllers {
			if c.Label == label {
				return c, nil
			}
		}
	}
	return Controller{}, fmt.Errorf("%w: %s/%s", ErrControllerNotFound, folder, label)
}

// Value читает текущее значение флага, а не закэшированное.
func (p *Panel) Value(c Controller) (bool, error) {
	if c.Master() {
		return p.house.PartVisible(c.Part)
	}
	return p.house.SectionVisible(c.Part, c.Section)
}

func (p *Panel) Set(c Controller, value bool) error {
	if c.Master() {
		return p.house.SetPartVisible(c.Part, value)
	}
	return p.house.SetSectionVisible(c.Part, c.Section, value)
}

// ============================================================
// View
// ============================================================

type ControllerView struct {
	Controller
	Value bool `json:"value"`
}

type FolderView struct {
	Title       string           `json:"title"`
	Controllers []ControllerView `json:"controllers"`
}

type View struct {
	Folders []FolderView `json:"folders"`
}

func (p *Panel) View() (View, error) {
	view := View{Folders: make([]FolderView, 0, len(p.folders))}
	for _, f := range p.folders {
		fv := FolderView{Title: f.Title, Controllers: make([]ControllerView, 0, len(f.Controllers))}
		for _, c := range f.Controllers {
			value, err := p.Value(c)
			if err != nil {
				return View{}, err
			}
			fv.Controllers = append(fv.Controllers, ControllerView{Controller: c, Value: value})
		}
		view.Folders = append(view.Folders, fv)
	}
	return view, nil
}
