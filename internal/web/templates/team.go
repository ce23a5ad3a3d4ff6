// Package templates renders the HTML pages of the team directory.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/teamroster/internal/core"
)

// TeamPageData is everything the directory page shows.
type TeamPageData struct {
	Members       []core.TeamMember // Filtered view
	Stats         core.RosterStats  // Whole roster
	Filter        core.FilterSpec
	Positions     []string
	Departments   []string
	Sources       []string
	Unconfigured  bool
	FailedSources []core.SourceFailure
	Notice        string // One-off message from a form redirect
	FormError     *core.UserMessage
}

// ExportURL returns the CSV export link for the current filter.
func (d TeamPageData) ExportURL() string {
	q := url.Values{}
	for k, v := range map[string]string{
		"q":          d.Filter.FreeText,
		"position":   d.Filter.Position,
		"department": d.Filter.Department,
		"source":     d.Filter.Source,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return "/api/team/export"
	}
	return "/api/team/export?" + q.Encode()
}

// TeamPage renders the full directory document.
func TeamPage(d TeamPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>Team Management</title></head><body>`)

		p.raw(`<header><h1>Team Management</h1>`)
		p.raw(`<p>Manage your team members across different departments and sheets</p>`)
		p.raw(`<a href="`)
		p.attr(d.ExportURL())
		p.raw(`">Export CSV</a>`)
		p.raw(`<form method="post" action="/refresh"><button type="submit">Refresh</button></form></header>`)

		if d.Unconfigured {
			p.raw(`<div class="notice" role="status">Team sheets are not configured, showing sample data. `)
			p.raw(`Set ROSTER_SOURCE and its credential to load your roster.</div>`)
		}
		for _, f := range d.FailedSources {
			p.raw(`<div class="warning" role="status">Sheet `)
			p.text(f.Source)
			p.raw(` was skipped (`)
			p.text(string(f.Kind))
			p.raw(`).</div>`)
		}
		if d.Notice != "" {
			p.raw(`<div class="notice" role="status">`)
			p.text(d.Notice)
			p.raw(`</div>`)
		}
		if d.FormError != nil {
			if err := ErrorAlert(d.FormError.Message, d.FormError.Action, d.FormError.Code).Render(ctx, w); err != nil {
				return err
			}
		}

		p.raw(`<section class="stats">`)
		stat(p, "Total Members", d.Stats.Total)
		stat(p, "Active", d.Stats.Active)
		stat(p, "Departments", d.Stats.Departments)
		stat(p, "Sheets", d.Stats.Sources)
		p.raw(`</section>`)

		p.raw(`<form method="get" action="/" class="filters">`)
		p.raw(`<input type="search" name="q" placeholder="Search members..." value="`)
		p.attr(d.Filter.FreeText)
		p.raw(`">`)
		selectBox(p, "position", "All Positions", d.Positions, d.Filter.Position)
		selectBox(p, "department", "All Departments", d.Departments, d.Filter.Department)
		selectBox(p, "source", "All Sheets", d.Sources, d.Filter.Source)
		p.raw(`<button type="submit">Filter</button><a href="/">Clear</a></form>`)

		if len(d.Members) == 0 {
			p.raw(`<div class="empty">`)
			if d.Stats.Total == 0 {
				p.raw(`<h3>No team members found</h3><p>Add your first team member to get started</p>`)
			} else {
				p.raw(`<h3>No members match your search</h3><p>Try adjusting your search or filter criteria</p>`)
			}
			p.raw(`</div>`)
		} else {
			p.raw(`<section class="members">`)
			for _, m := range d.Members {
				memberCard(p, m)
			}
			p.raw(`</section>`)
		}

		addMemberForm(p, d.Sources)
		p.raw(`</body></html>`)
		return p.err
	})
}

// ErrorAlert renders a dismissable error box with a support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<div class="error" role="alert"><strong>`)
		p.text(message)
		p.raw(`</strong>`)
		if action != "" {
			p.raw(`<p>`)
			p.text(action)
			p.raw(`</p>`)
		}
		p.raw(`<small>Error code: `)
		p.text(code)
		p.raw(`</small></div>`)
		return p.err
	})
}

func stat(p *printer, label string, n int) {
	p.raw(`<div class="stat"><p>`)
	p.text(label)
	p.raw(`</p><p>`)
	p.text(strconv.Itoa(n))
	p.raw(`</p></div>`)
}

func selectBox(p *printer, name, all string, options []string, selected string) {
	p.raw(`<select name="`)
	p.attr(name)
	p.raw(`"><option value="">`)
	p.text(all)
	p.raw(`</option>`)
	for _, o := range options {
		p.raw(`<option value="`)
		p.attr(o)
		p.raw(`"`)
		if o == selected {
			p.raw(` selected`)
		}
		p.raw(`>`)
		p.text(o)
		p.raw(`</option>`)
	}
	p.raw(`</select>`)
}

func memberCard(p *printer, m core.TeamMember) {
	p.raw(`<article class="member" id="member-`)
	p.attr(m.ID)
	p.raw(`"><span class="badge">`)
	p.text(string(m.Status))
	p.raw(`</span><h3>`)
	p.text(m.Name)
	p.raw(`</h3><p class="position">`)
	p.text(m.Position)
	p.raw(`</p>`)
	optional := []struct{ class, value string }{
		{"department", m.Department},
		{"email", m.Email},
		{"phone", m.ContactNumber},
		{"location", m.Location},
		{"joined", m.JoinDate},
	}
	for _, f := range optional {
		if f.value == "" {
			continue
		}
		p.raw(`<p class="`)
		p.attr(f.class)
		p.raw(`">`)
		p.text(f.value)
		p.raw(`</p>`)
	}
	if m.Skills != "" {
		p.raw(`<p class="skills">Skills: `)
		p.text(m.Skills)
		p.raw(`</p>`)
	}
	p.raw(`<p class="sheet">`)
	p.text(m.SourceName)
	p.raw(`</p></article>`)
}

func addMemberForm(p *printer, sources []string) {
	p.raw(`<form method="post" action="/members" class="add-member"><h2>Add Member</h2>`)
	inputs := []struct{ name, label string }{
		{"name", "Enter full name"},
		{"email", "Enter email address"},
		{"contactNumber", "Enter phone number"},
		{"position", "Enter job position"},
		{"department", "Enter department"},
		{"location", "Enter location"},
		{"skills", "Enter skills"},
		{"experience", "Enter experience"},
	}
	for _, in := range inputs {
		p.raw(`<input name="`)
		p.attr(in.name)
		p.raw(`" placeholder="`)
		p.attr(in.label)
		p.raw(`">`)
	}
	p.raw(`<input type="date" name="joinDate">`)
	selectBox(p, "sourceName", "Select sheet", sources, "")
	p.raw(`<button type="submit">Add Member</button></form>`)
}

// printer writes HTML fragments and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *printer) attr(s string) {
	p.raw(templ.EscapeString(s))
}

// String renders c to a string.
func String(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return sb.String(), nil
}
