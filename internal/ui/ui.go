package ui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
)

// Browser supplies the data the TUI displays.
type Browser interface {
	States(ctx context.Context) ([]models.Option, error)
	Cities(ctx context.Context, uf string) ([]models.Option, error)
	Items(ctx context.Context) ([]models.Item, error)
	Points(ctx context.Context, filter models.PointFilter) ([]models.Point, error)
	Point(ctx context.Context, id int64) (*models.PointDetail, error)
}

// ViewState represents the current view in the TUI.
type ViewState int

const (
	StateView ViewState = iota
	CityView
	ItemView
	PointListView
	DetailView
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	browser   Browser
	width     int
	height    int
	stateList list.Model
	cityList  list.Model
	itemList  list.Model
	pointList list.Model
	uf        string
	city      string
	selected  map[int64]bool
	points    []models.Point
	detail    *models.PointDetail
	notice    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model. A non-empty uf skips the state picker; uf and city together skip the city
// picker as well.
func NewModel(ctx context.Context, browser Browser, uf, city string) *Model {
	m := &Model{
		ctx:      ctx,
		view:     StateView,
		browser:  browser,
		width:    defaultWidth,
		height:   defaultHeight,
		uf:       strings.ToUpper(strings.TrimSpace(uf)),
		city:     strings.TrimSpace(city),
		selected: map[int64]bool{},
		help:     help.New(),
		keys:     newKeyMap(),
	}

	m.stateList = m.newList("Estados", nil)
	m.cityList = m.newList("Cidades", nil)
	m.itemList = m.newList("Itens de coleta", nil)
	m.pointList = m.newList("Pontos de coleta", nil)

	switch {
	case m.uf != "" && m.city != "":
		m.view = ItemView
	case m.uf != "":
		m.view = CityView
	}
	return m
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState { return m.view }

// Selection returns the current filter built from the chosen state, city and items.
func (m *Model) Selection() models.PointFilter {
	ids := make([]int64, 0, len(m.selected))
	for _, li := range m.itemList.Items() {
		if ci, ok := li.(catalogItem); ok && ci.selected {
			ids = append(ids, ci.item.ID)
		}
	}
	return models.PointFilter{UF: m.uf, City: m.city, ItemIDs: ids}
}

// Init fetches the data for the starting view.
func (m *Model) Init() tea.Cmd {
	switch m.view {
	case ItemView:
		return m.fetchItems()
	case CityView:
		return m.fetchCities(m.uf)
	default:
		return m.fetchStates()
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.stateList, &m.cityList, &m.itemList, &m.pointList} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && !m.filtering() {
			return m, tea.Quit
		}
		switch m.view {
		case StateView:
			return m.handleStateKeys(msg)
		case CityView:
			return m.handleCityKeys(msg)
		case ItemView:
			return m.handleItemKeys(msg)
		case PointListView:
			return m.handlePointKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStatesFetched:
		res := msg.data.(optionsResult)
		m.stateList.SetItems(optionItems(m.degrade(res.options, res.err)))
	case MsgCitiesFetched:
		res := msg.data.(optionsResult)
		m.cityList.Title = fmt.Sprintf("Cidades (%s)", m.uf)
		m.cityList.SetItems(optionItems(m.degrade(res.options, res.err)))
	case MsgItemsFetched:
		res := msg.data.(itemsResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		items := make([]list.Item, len(res.items))
		for i, it := range res.items {
			items[i] = catalogItem{item: it, selected: m.selected[it.ID]}
		}
		m.itemList.Title = fmt.Sprintf("Itens de coleta (%s/%s)", m.city, m.uf)
		m.itemList.SetItems(items)
	case MsgPointsFetched:
		res := msg.data.(pointsResult)
		if !reflect.DeepEqual(res.filter, m.Selection()) {
			return m, nil
		}
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.points = res.points
		items := make([]list.Item, len(res.points))
		for i, p := range res.points {
			items[i] = pointItem{point: p}
		}
		m.pointList.SetItems(items)
	case MsgDetailFetched:
		res := msg.data.(detailResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.detail = res.detail
		m.view = DetailView
	}
	return m, nil
}

// degrade turns an upstream failure into an empty list with a notice.
func (m *Model) degrade(options []models.Option, err error) []models.Option {
	m.notice = ""
	if err == nil {
		return options
	}
	if errors.Is(err, shared.ErrUpstream) {
		m.notice = "Serviço de localidades indisponível"
		return nil
	}
	m.err = err
	return nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case StateView:
		return m.renderList(m.stateList, m.keys.enter, m.keys.quit)
	case CityView:
		return m.renderList(m.cityList, m.keys.enter, m.keys.back, m.keys.quit)
	case ItemView:
		return m.renderItems()
	case PointListView:
		return m.renderList(m.pointList, m.keys.enter, m.keys.back, m.keys.quit)
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleStateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) && !m.filtering() {
		if opt, ok := m.stateList.SelectedItem().(optionItem); ok {
			m.uf = opt.option.Value
			m.city = ""
			m.view = CityView
			m.cityList.SetItems(nil)
			return m, m.fetchCities(m.uf)
		}
	}

	var cmd tea.Cmd
	m.stateList, cmd = m.stateList.Update(msg)
	return m, cmd
}

func (m *Model) handleCityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.back):
			m.view = StateView
			if len(m.stateList.Items()) == 0 {
				return m, m.fetchStates()
			}
			return m, nil
		case key.Matches(msg, m.keys.enter):
			if opt, ok := m.cityList.SelectedItem().(optionItem); ok {
				m.city = opt.option.Value
				m.view = ItemView
				m.clearPoints()
				if len(m.itemList.Items()) == 0 {
					return m, m.fetchItems()
				}
				return m, m.fetchPoints()
			}
		}
	}

	var cmd tea.Cmd
	m.cityList, cmd = m.cityList.Update(msg)
	return m, cmd
}

func (m *Model) handleItemKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.back):
			m.view = CityView
			if len(m.cityList.Items()) == 0 {
				return m, m.fetchCities(m.uf)
			}
			return m, nil
		case key.Matches(msg, m.keys.toggle):
			if ci, ok := m.itemList.SelectedItem().(catalogItem); ok {
				return m, m.toggle(ci)
			}
			return m, nil
		case key.Matches(msg, m.keys.enter):
			m.view = PointListView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) handlePointKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.back):
			m.view = ItemView
			return m, nil
		case key.Matches(msg, m.keys.enter):
			if pi, ok := m.pointList.SelectedItem().(pointItem); ok {
				return m, m.fetchDetail(pi.point.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.pointList, cmd = m.pointList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = PointListView
		m.detail = nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case StateView:
		m.stateList, cmd = m.stateList.Update(msg)
	case CityView:
		m.cityList, cmd = m.cityList.Update(msg)
	case ItemView:
		m.itemList, cmd = m.itemList.Update(msg)
	case PointListView:
		m.pointList, cmd = m.pointList.Update(msg)
	}
	return m, cmd
}

func (m *Model) filtering() bool {
	switch m.view {
	case StateView:
		return m.stateList.FilterState() == list.Filtering
	case CityView:
		return m.cityList.FilterState() == list.Filtering
	case ItemView:
		return m.itemList.FilterState() == list.Filtering
	case PointListView:
		return m.pointList.FilterState() == list.Filtering
	}
	return false
}

// toggle flips the selection of ci and refreshes the matching points.
func (m *Model) toggle(ci catalogItem) tea.Cmd {
	ci.selected = !ci.selected
	if ci.selected {
		m.selected[ci.item.ID] = true
	} else {
		delete(m.selected, ci.item.ID)
	}

	var cmd tea.Cmd
	for i, li := range m.itemList.Items() {
		if other, ok := li.(catalogItem); ok && other.item.ID == ci.item.ID {
			cmd = m.itemList.SetItem(i, ci)
			break
		}
	}
	return tea.Batch(cmd, m.fetchPoints())
}

func (m *Model) clearPoints() {
	m.points = nil
	m.pointList.SetItems(nil)
}

func (m *Model) fetchStates() tea.Cmd {
	return func() tea.Msg {
		states, err := m.browser.States(m.ctx)
		return statesFetchedMsg(states, err)
	}
}

func (m *Model) fetchCities(uf string) tea.Cmd {
	return func() tea.Msg {
		cities, err := m.browser.Cities(m.ctx, uf)
		return citiesFetchedMsg(cities, err)
	}
}

func (m *Model) fetchItems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.browser.Items(m.ctx)
		return itemsFetchedMsg(items, err)
	}
}

// fetchPoints refreshes the point list for the current selection. An empty selection clears it without a lookup.
func (m *Model) fetchPoints() tea.Cmd {
	filter := m.Selection()
	if len(filter.ItemIDs) == 0 {
		m.clearPoints()
		return nil
	}
	return func() tea.Msg {
		points, err := m.browser.Points(m.ctx, filter)
		return pointsFetchedMsg(filter, points, err)
	}
}

func (m *Model) fetchDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.browser.Point(m.ctx, id)
		return detailFetchedMsg(detail, err)
	}
}

func (m *Model) newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	l.Title = title
	l.DisableQuitKeybindings()
	return l
}

func (m *Model) renderList(l list.Model, keys ...key.Binding) string {
	out := l.View()
	if m.notice != "" && (m.view == StateView || m.view == CityView) {
		out = fmt.Sprintf("%s\n%s", styles.warn.Render(m.notice), out)
	}
	return fmt.Sprintf("%s\n\n%s", out, m.help.ShortHelpView(keys))
}

func (m *Model) renderItems() string {
	pointsKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "points"))

	status := styles.help.Render("Selecione um ou mais itens")
	if n := len(m.Selection().ItemIDs); n > 0 {
		status = styles.ok.Render(fmt.Sprintf("%d pontos encontrados", len(m.points)))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.toggle, pointsKey, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", m.itemList.View(), status, helpView)
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return ""
	}
	p := m.detail.Point

	var b strings.Builder
	b.WriteString(styles.title.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s/%s\n", p.City, p.UF))
	b.WriteString(fmt.Sprintf("Email: %s\nWhatsApp: %s\n", p.Email, p.Whatsapp))
	if p.ImageURL != "" {
		b.WriteString(fmt.Sprintf("Imagem: %s\n", p.ImageURL))
	}

	titles := make([]string, len(m.detail.Items))
	for i, it := range m.detail.Items {
		titles[i] = it.Title
	}
	b.WriteString("\n" + styles.ok.Render("Itens: ") + strings.Join(titles, ", ") + "\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return b.String()
}

func optionItems(options []models.Option) []list.Item {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = optionItem{option: o}
	}
	return items
}
