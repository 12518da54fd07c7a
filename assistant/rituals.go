package assistant

import "context"

func (c *Client) MorningRitual(ctx context.Context) (*Ritual, error) {
	return c.ritual(ctx, "morning")
}

func (c *Client) EveningRitual(ctx context.Context) (*Ritual, error) {
	return c.ritual(ctx, "evening")
}

func (c *Client) ritual(ctx context.Context, which string) (*Ritual, error) {
	var out Ritual
	if _, err := c.hc.GetJSON(ctx, pathRituals+"/"+which, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FamilyReminders(ctx context.Context) (*FamilyReminders, error) {
	var out FamilyReminders
	if _, err := c.hc.GetJSON(ctx, pathFamily, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
