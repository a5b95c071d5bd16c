package environment

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderList writes infos as a rounded table to w: NAME, PACKAGES, BINARIES,
// SIZE, MODIFIED, mirroring the CLI's table style for `env list`.
func RenderList(w io.Writer, infos []Info) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("NAME"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("PACKAGES"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("BINARIES"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("SIZE"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("MODIFIED"),
	})

	for _, info := range infos {
		t.AppendRow(table.Row{
			info.Name,
			info.PackageCount,
			info.BinaryCount,
			humanSize(info.SizeBytes),
			info.ModTime.Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + "B"
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatInt(bytes/div, 10) + string("KMGTPE"[exp]) + "iB"
}
