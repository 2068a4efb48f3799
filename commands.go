package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SintaW245/unsplash-gallery/internal/gallery"
	"github.com/SintaW245/unsplash-gallery/internal/query"
	"github.com/SintaW245/unsplash-gallery/internal/suggest"
	"github.com/SintaW245/unsplash-gallery/internal/unsplash"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// cliSession is the history session used by the command line tools.
const cliSession = "cli"

var (
	searchOpts struct {
		page        int
		perPage     int
		orientation string
		color       string
		orderBy     string
	}
	sessionFlag  string
	clearHistory bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search photos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		opts := query.SearchOptions{Page: searchOpts.page, PerPage: searchOpts.perPage}
		if opts.Orientation, err = query.ParseOrientation(searchOpts.orientation); err != nil {
			return err
		}
		if opts.Color, err = query.ParseColor(searchOpts.color); err != nil {
			return err
		}
		if opts.OrderBy, err = query.ParseOrderBy(searchOpts.orderBy); err != nil {
			return err
		}

		svc, closeStore, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		page, err := svc.Search(cmd.Context(), sessionFlag, strings.Join(args, " "), opts)
		if err != nil {
			return err
		}
		printSearchPage(cmd.OutOrStdout(), page)
		return nil
	},
}

var photoCmd = &cobra.Command{
	Use:   "photo <id>",
	Short: "Show a photo with its EXIF data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		svc, closeStore, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		d, err := svc.Photo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printDetail(cmd.OutOrStdout(), d)
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial]",
	Short: "Suggest search terms, or list popular searches without an argument",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, g := range suggest.Popular() {
				fmt.Fprintf(out, "%s: %s\n", g.Title, strings.Join(g.Terms, ", "))
			}
			return nil
		}
		for _, s := range suggest.Default().Suggest(args[0]) {
			fmt.Fprintln(out, s)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the search history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		svc, closeStore, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		if clearHistory {
			return svc.ClearHistory(cmd.Context(), sessionFlag)
		}
		log, err := svc.History(cmd.Context(), sessionFlag)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range log {
			fmt.Fprintf(out, "%-30s %s\n", e.Query, humanize.Time(time.Unix(e.Timestamp, 0)))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchOpts.page, "page", query.DefaultPage, "Result page")
	searchCmd.Flags().IntVar(&searchOpts.perPage, "per-page", query.DefaultPerPage, "Results per page (max 30)")
	searchCmd.Flags().StringVar(&searchOpts.orientation, "orientation", "", "landscape, portrait or squarish")
	searchCmd.Flags().StringVar(&searchOpts.color, "color", "", "Color filter, e.g. black_and_white or teal")
	searchCmd.Flags().StringVar(&searchOpts.orderBy, "order-by", "", "relevant or latest")

	for _, c := range []*cobra.Command{searchCmd, historyCmd} {
		c.Flags().StringVar(&sessionFlag, "session", cliSession, "History session id")
	}
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "Clear the history")

	rootCmd.AddCommand(searchCmd, photoCmd, suggestCmd, historyCmd)
}

func printSearchPage(w io.Writer, page *gallery.SearchPage) {
	fmt.Fprintf(w, "%s results for %q (%s)\n", humanize.Comma(int64(page.Total)), page.Query, page.Pagination)
	for _, p := range page.Items {
		printSummary(w, p)
	}
	if page.Pagination.HasPrev() {
		fmt.Fprintf(w, "Previous: --page %d\n", page.Pagination.Prev)
	}
	if page.Pagination.HasNext() {
		fmt.Fprintf(w, "More: --page %d\n", page.Pagination.Next)
	}
}

func printSummary(w io.Writer, p unsplash.PhotoSummary) {
	fmt.Fprintf(w, "%-12s %-40s by %s (@%s)  %s likes\n",
		p.ID, truncate(p.Description, 40), p.Author.Name, p.Author.Username, humanize.Comma(int64(p.Likes)))
}

func printDetail(w io.Writer, d *unsplash.PhotoDetail) {
	fmt.Fprintf(w, "Photo by %s (@%s)\n", d.Author.Name, d.Author.Username)
	fmt.Fprintf(w, "%s\n\n", d.Description)
	fmt.Fprintf(w, "Likes:     %s\n", humanize.Comma(int64(d.Likes)))
	fmt.Fprintf(w, "Views:     %s\n", humanize.Comma(int64(d.Views)))
	fmt.Fprintf(w, "Downloads: %s\n", humanize.Comma(int64(d.Downloads)))

	if !d.Exif.Empty() {
		fmt.Fprintln(w)
		if camera := d.Exif.Camera(); camera != "" {
			fmt.Fprintf(w, "Camera:        %s\n", camera)
		}
		if d.Exif.FocalLength != nil {
			fmt.Fprintf(w, "Focal Length:  %smm\n", *d.Exif.FocalLength)
		}
		if d.Exif.Aperture != nil {
			fmt.Fprintf(w, "Aperture:      f/%s\n", *d.Exif.Aperture)
		}
		if d.Exif.ExposureTime != nil {
			fmt.Fprintf(w, "Shutter Speed: %ss\n", *d.Exif.ExposureTime)
		}
		if d.Exif.ISO != nil {
			fmt.Fprintf(w, "ISO:           %d\n", *d.Exif.ISO)
		}
	}

	if t, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
		fmt.Fprintf(w, "\nPublished: %s\n", t.Format("January 2, 2006"))
	}
	if d.Links.HTML != "" {
		fmt.Fprintf(w, "View on Unsplash: %s\n", d.Links.HTML)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
