package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stayfinder/internal/api"
	"github.com/five82/stayfinder/internal/prefs"
)

type formKind int

const (
	formLogin formKind = iota
	formRegister
	formAdd
	formProfile
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

const minPasswordLen = 6

type formField struct {
	name  string
	label string
	input textinput.Model
	err   string
}

// form is one of the four input screens. Field names match the API's
// validation keys so server errors land on the right input.
type form struct {
	kind       formKind
	title      string
	fields     []formField
	focus      int
	submitting bool
	message    string
}

func newField(name, label, placeholder string, secret bool) formField {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Cursor.SetMode(cursor.CursorStatic)
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return formField{name: name, label: label, input: in}
}

func newForm(kind formKind, title string, fields ...formField) *form {
	f := &form{kind: kind, title: title, fields: fields}
	f.fields[0].input.Focus()
	return f
}

func newLoginForm() *form {
	return newForm(formLogin, "Login",
		newField("email", "Email", "you@example.com", false),
		newField("password", "Password", "", true),
	)
}

func newRegisterForm() *form {
	return newForm(formRegister, "Create Account",
		newField("name", "Full name", "", false),
		newField("email", "Email", "you@example.com", false),
		newField("password", "Password", "at least 6 characters", true),
		newField("confirm_password", "Confirm", "", true),
	)
}

func newAddForm() *form {
	return newForm(formAdd, "List Your Property",
		newField("name", "Name", "Sunrise Boys Hostel", false),
		newField("type", "Type", "hostel, pg or apartment", false),
		newField("city", "City", "", false),
		newField("location", "Area", "", false),
		newField("price", "Price", "monthly rent in ₹", false),
		newField("original_price", "Was", "optional", false),
		newField("amenities", "Amenities", "WiFi, AC, Laundry", false),
		newField("address", "Address", "", false),
		newField("contact", "Contact", "", false),
		newField("description", "About", "", false),
		newField("image", "Image", "URL or local file", false),
	)
}

func newProfileForm(user *api.User) *form {
	f := newForm(formProfile, "Account Settings",
		newField("name", "Name", "", false),
		newField("phone", "Phone", "10-digit mobile", false),
		newField("city", "City", "", false),
	)
	if user != nil {
		f.prefill(*user)
	}
	return f
}

func (f *form) prefill(u api.User) {
	f.set("name", u.Name)
	f.set("phone", u.Phone)
	f.set("city", u.City)
}

func (f *form) value(name string) string {
	for _, field := range f.fields {
		if field.name == name {
			return strings.TrimSpace(field.input.Value())
		}
	}
	return ""
}

func (f *form) set(name, value string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].input.SetValue(value)
		}
	}
}

// setErrors shows errs inline and reports whether there were any.
func (f *form) setErrors(errs map[string]string) bool {
	for i := range f.fields {
		f.fields[i].err = errs[f.fields[i].name]
	}
	return len(errs) > 0
}

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

// Validation

func validateLogin(email, password string) map[string]string {
	errs := map[string]string{}
	if email == "" || password == "" {
		if email == "" {
			errs["email"] = "Email and password are required"
		}
		if password == "" {
			errs["password"] = "Email and password are required"
		}
		return errs
	}
	if !emailPattern.MatchString(email) {
		errs["email"] = "Please enter a valid email address"
	}
	return errs
}

func validateRegistration(r api.Registration) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Name is required"
	}
	if !emailPattern.MatchString(r.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if len(r.Password) < minPasswordLen {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters long", minPasswordLen)
	}
	if r.Password != r.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}
	return errs
}

func validateProfile(p api.Profile) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Name is required"
	}
	if p.Phone != "" && !phonePattern.MatchString(p.Phone) {
		errs["phone"] = "Please enter a valid 10-digit phone number"
	}
	return errs
}

// listingFromForm parses and checks the add-listing form.
func listingFromForm(f *form) (api.NewListing, map[string]string) {
	errs := map[string]string{}
	l := api.NewListing{
		Name:        f.value("name"),
		Category:    strings.ToLower(f.value("type")),
		City:        f.value("city"),
		Location:    f.value("location"),
		Address:     f.value("address"),
		Contact:     f.value("contact"),
		Description: f.value("description"),
	}
	for _, field := range []struct{ name, value string }{
		{"name", l.Name}, {"city", l.City}, {"location", l.Location},
	} {
		if field.value == "" {
			errs[field.name] = "Required"
		}
	}
	switch l.Category {
	case "hostel", "pg", "apartment":
	default:
		errs["type"] = "Choose hostel, pg or apartment"
	}

	price, err := strconv.Atoi(f.value("price"))
	if err != nil || price <= 0 {
		errs["price"] = "Enter the monthly rent as a whole number"
	}
	l.Price = price
	if raw := f.value("original_price"); raw != "" {
		orig, err := strconv.Atoi(raw)
		if err != nil || orig < 0 {
			errs["original_price"] = "Enter a whole number or leave empty"
		}
		l.OriginalPrice = orig
	}

	for _, tag := range strings.Split(f.value("amenities"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			l.Amenities = append(l.Amenities, tag)
		}
	}

	image := f.value("image")
	switch {
	case image == "":
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		l.ImageURL = image
	default:
		data, err := os.ReadFile(image)
		if err != nil {
			errs["image"] = "Cannot read image file"
			break
		}
		l.ImageName = filepath.Base(image)
		l.ImageData = data
	}
	return l, errs
}

// Key handling

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.form
	if f.submitting {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, f.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.move(-1)
	case key.Matches(msg, m.keys.Confirm):
		if f.focus < len(f.fields)-1 {
			return m, f.move(1)
		}
		return m.submitForm()
	case msg.Type == tea.KeyCtrlS:
		return m.submitForm()
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return m, cmd
}

// submitForm validates locally and sends the form.
func (m Model) submitForm() (Model, tea.Cmd) {
	f := m.form
	f.message = ""
	client := m.client

	switch f.kind {
	case formLogin:
		creds := api.Credentials{Email: f.value("email"), Password: f.fields[1].input.Value()}
		if f.setErrors(validateLogin(creds.Email, creds.Password)) {
			return m, nil
		}
		f.submitting = true
		return m, m.authCmd(formLogin, func(ctx context.Context) (api.AuthResult, error) {
			return client.Login(ctx, creds)
		})

	case formRegister:
		reg := api.Registration{
			Name:            f.value("name"),
			Email:           f.value("email"),
			Password:        f.fields[2].input.Value(),
			ConfirmPassword: f.fields[3].input.Value(),
		}
		if f.setErrors(validateRegistration(reg)) {
			return m, nil
		}
		f.submitting = true
		return m, m.authCmd(formRegister, func(ctx context.Context) (api.AuthResult, error) {
			return client.Register(ctx, reg)
		})

	case formProfile:
		profile := api.Profile{Name: f.value("name"), Phone: f.value("phone"), City: f.value("city")}
		if f.setErrors(validateProfile(profile)) {
			return m, nil
		}
		f.submitting = true
		return m, m.authCmd(formProfile, func(ctx context.Context) (api.AuthResult, error) {
			return client.UpdateProfile(ctx, profile)
		})

	case formAdd:
		listing, errs := listingFromForm(f)
		if f.setErrors(errs) {
			return m, nil
		}
		f.submitting = true
		return m, m.createCmd(listing)
	}
	return m, nil
}

func (m Model) handleAuth(msg authMsg) (Model, tea.Cmd) {
	f := m.form
	if f == nil || f.kind != msg.kind {
		return m, nil
	}
	f.submitting = false

	if msg.err != nil {
		var verr *api.ValidationError
		if errors.As(msg.err, &verr) {
			f.setErrors(verr.Fields)
		}
		if msg.kind == formLogin {
			var serr *api.ServerError
			if errors.As(msg.err, &serr) && serr.Status == 401 {
				f.message = "Invalid email or password"
				return m, m.notify(levelError, f.message)
			}
		}
		f.message = api.UserMessage(msg.err)
		return m, m.notify(levelError, f.message)
	}

	res := msg.result
	switch msg.kind {
	case formLogin:
		return m.completeLogin(res)
	case formRegister:
		if res.AccessToken != "" {
			return m.completeLogin(res)
		}
		cmd := m.notify(levelSuccess, "Registration successful! Please login.")
		m, nav := m.navigate(pathLogin)
		return m, tea.Batch(cmd, nav)
	case formProfile:
		if res.User != nil {
			m.store.SetSession(res.User, nil)
		}
		m.refreshSnapshot()
		return m, tea.Batch(m.notify(levelSuccess, "Profile updated successfully!"), m.verifyCmd())
	}
	return m, nil
}

// completeLogin stores the session and follows the redirect.
func (m Model) completeLogin(res api.AuthResult) (Model, tea.Cmd) {
	if res.AccessToken != "" {
		m.client.SetToken(res.AccessToken)
	}
	user := res.User
	if user == nil {
		user = &api.User{Email: m.form.value("email")}
	}
	m.store.SetSession(user, nil)
	m.refreshSnapshot()
	m.savePrefs(func(p *prefs.Prefs) {
		p.Token = res.AccessToken
		p.UserName = user.Name
	})

	msg := "Login successful!"
	if res.Message != "" {
		msg = res.Message
	}
	cmds := []tea.Cmd{m.notify(levelSuccess, msg)}
	if res.User == nil && res.AccessToken != "" {
		cmds = append(cmds, m.verifyCmd())
	}
	target := m.loginRedirect(res)
	m.afterLogin = ""
	m.history = nil
	m, nav := m.navigate(target)
	return m, tea.Batch(append(cmds, nav)...)
}

func (m Model) handleCreate(msg createMsg) (Model, tea.Cmd) {
	f := m.form
	if f == nil || f.kind != formAdd {
		return m, nil
	}
	f.submitting = false
	if msg.err != nil {
		var verr *api.ValidationError
		if errors.As(msg.err, &verr) {
			f.setErrors(verr.Fields)
		}
		f.message = api.UserMessage(msg.err)
		var serr *api.ServerError
		if errors.As(msg.err, &serr) && strings.TrimSpace(serr.Message) == "" {
			f.message = "Failed to add hostel"
		}
		return m, m.notify(levelError, f.message)
	}
	cmd := m.notify(levelSuccess, "Hostel added successfully!")
	m.history = nil
	m, nav := m.navigate(pathHome)
	return m, tea.Batch(cmd, nav)
}

func (m Model) handleVerify(msg verifyMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		var serr *api.ServerError
		if errors.As(msg.err, &serr) && serr.Status == 401 {
			m.store.ClearSession()
			m.refreshSnapshot()
			m.client.SetToken("")
			m.savePrefs(func(p *prefs.Prefs) { p.ClearSession() })
			m.logger.Warn("session rejected", "error", msg.err)
			return m, nil
		}
		m.store.SetSession(nil, msg.err)
		m.refreshSnapshot()
		m.logger.Warn("session check failed", "error", msg.err)
		return m, nil
	}
	user := msg.user
	m.store.SetSession(&user, nil)
	m.refreshSnapshot()
	if m.form != nil && m.form.kind == formProfile && !m.form.submitting {
		m.form.prefill(user)
	}
	return m, nil
}

// logout drops the session locally and in prefs.
func (m Model) logout() (Model, tea.Cmd) {
	if m.snapshot.User == nil {
		return m, nil
	}
	m.client.SetToken("")
	m.store.ClearSession()
	m.refreshSnapshot()
	m.savePrefs(func(p *prefs.Prefs) { p.ClearSession() })
	cmd := m.notify(levelSuccess, "You have been logged out")
	if m.route.kind == routeAdd || m.route.kind == routeAccount {
		m.history = nil
		var nav tea.Cmd
		m, nav = m.navigate(pathHome)
		return m, tea.Batch(cmd, nav)
	}
	return m, cmd
}

// View

func (m Model) renderForm() string {
	f := m.form
	if f == nil {
		return ""
	}
	styles := m.theme.Styles()
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = maxInt(labelWidth, len(field.label))
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		label := padRight(field.label, labelWidth+1)
		if i == f.focus {
			b.WriteString(styles.AccentText.Render("› " + label))
		} else {
			b.WriteString(styles.MutedText.Render("  " + label))
		}
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if field.err != "" {
			b.WriteString(strings.Repeat(" ", labelWidth+3))
			b.WriteString(styles.DangerText.Render(field.err))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	switch {
	case f.submitting:
		b.WriteString(m.spinner.View() + styles.MutedText.Render(" Submitting..."))
	case f.message != "":
		b.WriteString(styles.DangerText.Render(f.message))
	default:
		b.WriteString(styles.FaintText.Render("tab next field • enter submit • esc back"))
	}

	switch f.kind {
	case formLogin:
		b.WriteString("\n\n" + styles.FaintText.Render("No account? ctrl+r to register"))
	case formRegister:
		b.WriteString("\n\n" + styles.FaintText.Render("Already registered? ctrl+l to login"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(1, 2).
		Render(b.String())
}
