package widgettui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"github.com/tOgg1/chatline/internal/models"
	"github.com/tOgg1/chatline/internal/timeline"
	"github.com/tOgg1/chatline/internal/widgettui/styles"
)

// ComponentRenderer draws a host component from its props.
type ComponentRenderer func(props map[string]any, width int) string

// termDelegate renders messages as terminal text.
type termDelegate struct {
	styles        styles.MessageStyles
	width         int
	showTimestamp bool
	now           func() time.Time
	components    map[string]ComponentRenderer
}

var _ timeline.Delegate = (*termDelegate)(nil)

func newTermDelegate(theme styles.Theme, showTimestamp bool) *termDelegate {
	return &termDelegate{
		styles:        styles.NewMessageStyles(theme),
		width:         defaultWidth,
		showTimestamp: showTimestamp,
		now:           time.Now,
		components: map[string]ComponentRenderer{
			"rating": renderRating,
		},
	}
}

func (d *termDelegate) bubbleWidth() int {
	w := d.width * 3 / 4
	if w < 10 {
		w = d.width
	}
	return w
}

func (d *termDelegate) RenderText(msg models.Message, body models.Text, hints timeline.DisplayHints) string {
	var b strings.Builder
	d.writeTimestamp(&b, msg, hints)

	if msg.Sender == models.SenderClient {
		block := d.styles.Client.Render(styles.WrapBody(body.Body, d.bubbleWidth()))
		b.WriteString(styles.RightAlign(block, d.width))
	} else {
		block := d.styles.Response.Render(renderMarkdown(body.Body, d.bubbleWidth()-2))
		b.WriteString(d.withAvatar(msg, hints, block))
	}
	d.writeGap(&b, hints)
	return b.String()
}

func (d *termDelegate) RenderLink(msg models.Message, link models.LinkSnippet, hints timeline.DisplayHints) string {
	var b strings.Builder
	d.writeTimestamp(&b, msg, hints)

	title := strings.TrimSpace(link.Title)
	if title == "" {
		title = link.Link
	}
	lines := []string{
		d.styles.LinkTitle.Render(styles.WrapBody(title, d.bubbleWidth()-2)),
		d.styles.Link.Render(link.Link),
	}
	if link.Target != "" && link.Target != models.DefaultLinkTarget {
		lines = append(lines, d.styles.Timestamp.UnsetAlign().Render("target: "+link.Target))
	}
	b.WriteString(d.withAvatar(msg, hints, strings.Join(lines, "\n")))
	d.writeGap(&b, hints)
	return b.String()
}

func (d *termDelegate) RenderComponent(msg models.Message, comp models.Component) string {
	render, ok := d.components[comp.Name]
	var body string
	if ok {
		body = render(comp.Props, d.bubbleWidth()-4)
	} else {
		body = fmt.Sprintf("[%s]", comp.Name)
	}
	block := d.styles.Component.Render(body)
	hints := timeline.DisplayHints{StartsSequence: true, EndsSequence: true}
	return d.withAvatar(msg, hints, block) + "\n"
}

func (d *termDelegate) writeTimestamp(b *strings.Builder, msg models.Message, hints timeline.DisplayHints) {
	if !d.showTimestamp || !hints.ShowTimestamp {
		return
	}
	b.WriteString(d.styles.RenderTimestamp(calendarLabel(msg.Timestamp, d.now()), d.width))
	b.WriteString("\n")
}

func (d *termDelegate) writeGap(b *strings.Builder, hints timeline.DisplayHints) {
	if hints.EndsSequence {
		b.WriteString("\n")
	}
}

// withAvatar prefixes block with the avatar column on its first line.
func (d *termDelegate) withAvatar(msg models.Message, hints timeline.DisplayHints, block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		prefix := " "
		if i == 0 {
			prefix = d.styles.RenderAvatar(msg.ShowAvatar && hints.StartsSequence)
		}
		suffix := ""
		if i == len(lines)-1 {
			if dot := d.styles.RenderUnreadIndicator(msg.Unread); dot != "" {
				suffix = " " + dot
			}
		}
		lines[i] = prefix + " " + line + suffix
	}
	return strings.Join(lines, "\n")
}

// renderMarkdown renders src for a terminal of the given width. Plain URLs
// are left alone so the terminal can detect them.
func renderMarkdown(src string, width int) string {
	if width < 10 {
		width = 10
	}
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	out := gomarkdown.Render(p.Parse([]byte(src)), r)
	return strings.Trim(string(out), "\n")
}

func renderRating(props map[string]any, width int) string {
	stars := 0
	switch v := props["stars"].(type) {
	case int:
		stars = v
	case float64:
		stars = int(v)
	}
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	line := strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)

	keys := make([]string, 0, len(props))
	for k := range props {
		if k != "stars" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf("\n%s: %v", k, props[k])
	}
	return styles.WrapBody(line, width)
}
