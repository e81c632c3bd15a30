package listings

import "context"

// SiteContent returns the saved site copy merged over the defaults.
func (c *Catalog) SiteContent(ctx context.Context) SiteContent {
	return c.content.Load(ctx)
}

// SaveSiteContent validates and saves the site copy.
func (c *Catalog) SaveSiteContent(ctx context.Context, content SiteContent) error {
	if err := ValidateSiteContent(content); err != nil {
		return err
	}
	if err := c.content.Save(ctx, content); err != nil {
		return err
	}
	c.logger.Info("site content saved")
	return nil
}

// ResetSiteContent saves the default site copy.
func (c *Catalog) ResetSiteContent(ctx context.Context) error {
	if err := c.content.Reset(ctx); err != nil {
		return err
	}
	c.logger.Info("site content reset")
	return nil
}

// WatchSiteContent calls fn with the merged site copy whenever another
// context saves it, until ctx is cancelled.
func (c *Catalog) WatchSiteContent(ctx context.Context, fn func(SiteContent)) error {
	return c.content.OnChange(ctx, fn)
}
