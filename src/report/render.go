package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/andrewyi/blogsync/src/enum"
)

// 单元格的最大显示宽度，超出部分以...截断
const maxCellWidth = 60

// Render 以对齐的纯文本表格输出报告
func Render(w io.Writer, r *Report) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "articles: %d, authors: %d", r.Articles, r.Authors)
	if !r.Watermark.IsZero() {
		fmt.Fprintf(&sb, ", latest: %s", r.Watermark.Format(enum.StoreDateLayout))
	}
	sb.WriteString("\n\n")

	sb.WriteString("Top authors\n")
	authorTable := [][]string{{"#", "full_name", "job_title", "articles"}}
	for i, a := range r.TopAuthors {
		authorTable = append(authorTable, []string{strconv.Itoa(i + 1), a.FullName, a.JobTitle, strconv.Itoa(a.ArticlesCounter)})
	}
	writeTable(&sb, authorTable)

	sb.WriteString("\nLatest articles\n")
	articleTable := [][]string{{"#", "date", "title", "authors"}}
	for i, a := range r.LatestArticles {
		articleTable = append(articleTable, []string{
			strconv.Itoa(i + 1),
			a.PublicationDate.Format(enum.StoreDateLayout),
			a.Title,
			strings.Join(a.Authors, ", "),
		})
	}
	writeTable(&sb, articleTable)

	sb.WriteString("\nTop tags\n")
	tagTable := [][]string{{"#", "tag", "articles"}}
	for i, tag := range r.TopTags {
		tagTable = append(tagTable, []string{strconv.Itoa(i + 1), tag.Tag, strconv.Itoa(tag.Articles)})
	}
	writeTable(&sb, tagTable)

	_, err := io.WriteString(w, sb.String())
	return err
}

// 第一行为表头，按显示宽度对齐，东亚字符占两列
func writeTable(sb *strings.Builder, table [][]string) {
	if len(table) == 0 {
		return
	}
	colWidths := make([]int, len(table[0]))
	for _, row := range table {
		for i := range row {
			row[i] = runewidth.Truncate(row[i], maxCellWidth, "...")
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	writeRow := func(row []string) {
		sb.WriteString("|")
		for i, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(cell, colWidths[i]))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(table[0])
	sb.WriteString("|")
	for _, width := range colWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	for _, row := range table[1:] {
		writeRow(row)
	}
}
