package dispatcher

import "tabdeck/internal/browser"

// caret returns the current tab's caret
func (d *Dispatcher) caret() (browser.Caret, error) {
	t, err := d.currentTab()
	if err != nil {
		return nil, err
	}
	return t.Caret(), nil
}

// Caret movement commands. Each moves the caret (and the selection end
// while selecting) by count units.

func (d *Dispatcher) MoveToNextLine(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToNextLine(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToPrevLine(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToPrevLine(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToNextChar(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToNextChar(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToPrevChar(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToPrevChar(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToNextWord(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToNextWord(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToPrevWord(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToPrevWord(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToEndOfWord(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToEndOfWord(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToStartOfLine() error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToStartOfLine()
	return nil
}

func (d *Dispatcher) MoveToEndOfLine() error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToEndOfLine()
	return nil
}

func (d *Dispatcher) MoveToStartOfNextBlock(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToStartOfNextBlock(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToStartOfPrevBlock(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToStartOfPrevBlock(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToEndOfNextBlock(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToEndOfNextBlock(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToEndOfPrevBlock(count int) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToEndOfPrevBlock(repeat(count))
	return nil
}

func (d *Dispatcher) MoveToStartOfDocument() error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToStartOfDocument()
	return nil
}

func (d *Dispatcher) MoveToEndOfDocument() error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.MoveToEndOfDocument()
	return nil
}

// ToggleSelection starts or stops extending the selection
func (d *Dispatcher) ToggleSelection() error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.ToggleSelection()
	return nil
}

// DropSelection collapses the selection at the caret
func (d *Dispatcher) DropSelection() error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	c.DropSelection()
	return nil
}

// FollowSelected opens the selected text as a link, in a new tab when
// tab is set
func (d *Dispatcher) FollowSelected(tab bool) error {
	c, err := d.caret()
	if err != nil {
		return err
	}
	return wrapErr(c.FollowSelected(tab))
}
