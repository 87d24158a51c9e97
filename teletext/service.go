package teletext

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Page is one teletext page: a magazine/page/subpage address and 25 rows
// of 40-column text.
type Page struct {
	Magazine int // 1-8
	Page     int // 0x00-0xFF (PN two hex digits after magazine digit)
	Subpage  int
	Rows     [25]string
	CycleSeconds int // cycle-by-time; 0 disables
}

// Service is the magazine-to-page-to-subpage tree the teletext processor
// cycles through.
type Service struct {
	Magazines map[int][]*Page
	order     []*Page
	cursor    int
	lastCycle time.Time
	Clock     func() time.Time
}

// NewService builds an empty service tree.
func NewService(clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{Magazines: make(map[int][]*Page), Clock: clock}
}

// AddPage registers a page under its magazine, in cycle order.
func (s *Service) AddPage(p *Page) {
	s.Magazines[p.Magazine] = append(s.Magazines[p.Magazine], p)
	s.order = append(s.order, p)
}

// Current returns the page currently being transmitted, moving to the next
// page once the current page's CycleSeconds have passed. A page with
// CycleSeconds zero stays current; there is no cycling by packet count.
func (s *Service) Current() *Page {
	if len(s.order) == 0 {
		return nil
	}
	page := s.order[s.cursor%len(s.order)]
	now := s.Clock()
	if page.CycleSeconds > 0 {
		if s.lastCycle.IsZero() {
			s.lastCycle = now
		} else if now.Sub(s.lastCycle) >= time.Duration(page.CycleSeconds)*time.Second {
			s.cursor++
			s.lastCycle = now
			page = s.order[s.cursor%len(s.order)]
		}
	}
	return page
}

// ParseTTI parses a .tti file (PN,CT,DE,PS,SC,OL,FL commands) into pages.
func ParseTTI(r io.Reader) ([]*Page, error) {
	scanner := bufio.NewScanner(r)
	var pages []*Page
	var cur *Page

	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.IndexByte(line, ',')
		if idx < 2 {
			continue
		}
		cmd, arg := line[:idx], line[idx+1:]
		switch cmd {
		case "PN":
			if cur != nil {
				pages = append(pages, cur)
			}
			cur = &Page{}
			if len(arg) >= 3 {
				mag, _ := strconv.ParseInt(arg[0:1], 16, 32)
				pg, _ := strconv.ParseInt(arg[1:3], 16, 32)
				cur.Magazine = int(mag)
				cur.Page = int(pg)
			}
		case "SC":
			if cur != nil {
				sp, _ := strconv.ParseInt(arg, 16, 32)
				cur.Subpage = int(sp)
			}
		case "PS":
			// Page status bits; not modelled individually here, only kept
			// for parser completeness.
		case "CT":
			if cur != nil {
				secs, err := strconv.Atoi(arg)
				if err == nil {
					cur.CycleSeconds = secs
				}
			}
		case "DE":
			// Description, informational only.
		case "OL":
			if cur == nil {
				continue
			}
			parts := strings.SplitN(arg, ",", 2)
			if len(parts) != 2 {
				continue
			}
			row, err := strconv.Atoi(parts[0])
			if err != nil || row < 0 || row >= 25 {
				continue
			}
			cur.Rows[row] = parts[1]
		case "FL":
			// Fastext link row; parsed but not modelled beyond packet 27's
			// link data + CRC.
		}
	}
	if cur != nil {
		pages = append(pages, cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("teletext: parsing tti: %w", err)
	}
	return pages, nil
}

// LoadTTIFile opens and parses a .tti file by path.
func LoadTTIFile(path string) ([]*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("teletext: opening %s: %w", path, err)
	}
	defer f.Close()
	return ParseTTI(f)
}
