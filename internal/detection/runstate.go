package detection

// RunState tracks the five run lengths of a 1:1:3:1:1 candidate while a row
// is read left to right.
//
// State 0, 2 and 4 count black runs and states 1 and 3 count white runs. The
// zero value is ready to use at the start of a row.
type RunState struct {
	Counts [5]int
	State  int
}

// Feed advances the automaton by one pixel.
//
// It returns true, without counting the pixel, when a white pixel arrives
// while the fifth run is open: the five counts then describe a complete
// candidate. The caller examines the counts, calls Shift, and feeds the same
// pixel again.
func (s *RunState) Feed(black bool) bool {
	if black {
		if s.State == 1 || s.State == 3 {
			s.State++
		}
	} else {
		switch s.State {
		case 0, 2:
			s.State++
		case 4:
			return true
		}
	}
	s.Counts[s.State]++
	return false
}

// Shift drops the first two runs so the trailing black-white-black runs of
// the last candidate can start the next one. It leaves the automaton
// counting the white run in slot 3.
func (s *RunState) Shift() {
	s.Counts[0] = s.Counts[2]
	s.Counts[1] = s.Counts[3]
	s.Counts[2] = s.Counts[4]
	s.Counts[3] = 0
	s.Counts[4] = 0
	s.State = 3
}

// Total returns the sum of the five run lengths.
func (s *RunState) Total() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}
