package sink

import (
	"fmt"
	"os"

	"github.com/outbreakwatch/newswire/app/feed"
)

// Echo pretty-prints every record to stdout. Used in verbose mode.
func Echo(records map[string][]feed.Record) {
	for _, recs := range records {
		for _, rec := range recs {
			fmt.Fprintf(os.Stdout,
				"\ntitle:       %s"+
					"\ndescription: %s"+
					"\nurl:         %s"+
					"\npublishedAt: %s"+
					"\naddedOn:     %s"+
					"\nauthor:      %s"+
					"\ncontent:\n%s"+
					"\nurlToImage:  %s"+
					"\nlanguage:    %s"+
					"\nsiteName:    %s\n",
				rec.Title, rec.Description, rec.URL, rec.PublishedAt,
				rec.AddedOn, rec.Author, rec.Content, rec.URLToImage,
				rec.Language, rec.SiteName)
		}
	}
}
