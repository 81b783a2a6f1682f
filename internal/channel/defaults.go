package channel

import "github.com/netpersona/popcorn/internal/models"

// DefaultThemedChannels returns the holiday channels created on first start
func DefaultThemedChannels() []*models.ThemedChannel {
	cozy := models.NewThemedChannel("Cozy Halloween", 9, 11)
	cozy.GenreFilter = "animation,family,fantasy"
	cozy.Keywords = "halloween,hocus,casper,ghostbusters,monster,addams,beetlejuice,nightmare before christmas,corpse bride,frankenweenie,coraline,paranorman,witch,ghost,spooky,goosebumps"
	cozy.RatingFilter = "G,PG,PG-13"
	cozy.FilterMode = models.FilterModeAll

	// horror always qualifies; anything else needs a keyword, so the list
	// holds only franchise titles and phrases that rarely appear in ordinary
	// summaries
	scary := models.NewThemedChannel("Scary Halloween", 9, 11)
	scary.GenreFilter = "horror"
	scary.Keywords = "halloween,friday the 13th,evil dead,the conjuring,insidious,paranormal activity,the exorcist,poltergeist,slasher,haunted house"
	scary.RatingFilter = "PG-13,R,NR,Not Rated,Unrated"
	scary.FilterMode = models.FilterModeAny

	christmas := models.NewThemedChannel("Christmas", 11, 1)
	christmas.GenreFilter = "holiday"
	christmas.Keywords = "christmas,xmas,santa,elf,grinch,miracle,wonderful life,home alone,polar express,jingle,carol,noel,claus,reindeer,snowman,nutcracker,scrooge"
	christmas.FilterMode = models.FilterModeAny

	return []*models.ThemedChannel{cozy, scary, christmas}
}
