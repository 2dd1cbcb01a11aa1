// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/olegiv/hanmaru/internal/apiclient"
	"github.com/olegiv/hanmaru/internal/cache"
	"github.com/olegiv/hanmaru/internal/model"
)

// Cache keys of the public reads.
const (
	keyCourses         = "courses:all"
	keyFeaturedCourses = "courses:featured"
	keyBlogs           = "blogs:published"
	keyNotifications   = "blogs:notifications"
	keyTrending        = "blogs:trending"
	keyAbout           = "about"
	keySuccess         = "success:all"
	keyFeaturedSuccess = "success:featured"

	prefixCourses = "courses:"
	prefixBlogs   = "blogs:"
	prefixSuccess = "success:"
)

// CatalogAPI is the part of the API client read by public pages.
type CatalogAPI interface {
	ListCourses(ctx context.Context, creds apiclient.Credentials) ([]model.Course, error)
	FeaturedCourses(ctx context.Context) ([]model.Course, error)
	ListBlogs(ctx context.Context, creds apiclient.Credentials, f apiclient.BlogFilter) ([]model.BlogPost, error)
	Notifications(ctx context.Context) ([]model.BlogPost, error)
	TrendingTopics(ctx context.Context) ([]model.TrendingTopic, error)
	GetAbout(ctx context.Context) (*model.AboutContent, error)
	ListSuccess(ctx context.Context) ([]model.SuccessStory, error)
	FeaturedSuccess(ctx context.Context) ([]model.SuccessStory, error)
}

// Catalog serves the anonymous reads of the public pages from the cache.
// Reads that depend on the signed-in user go to the API directly.
type Catalog struct {
	api   CatalogAPI
	cache *cache.Manager

	courses  *cache.Loader[[]model.Course]
	blogs    *cache.Loader[[]model.BlogPost]
	trending *cache.Loader[[]model.TrendingTopic]
	about    *cache.Loader[model.AboutContent]
	success  *cache.Loader[[]model.SuccessStory]
}

// NewCatalog creates a catalog over the cache manager.
func NewCatalog(api CatalogAPI, cm *cache.Manager) *Catalog {
	backend, ttl := cm.Backend(), cm.DefaultTTL()
	return &Catalog{
		api:      api,
		cache:    cm,
		courses:  cache.NewLoader[[]model.Course](backend, ttl),
		blogs:    cache.NewLoader[[]model.BlogPost](backend, ttl),
		trending: cache.NewLoader[[]model.TrendingTopic](backend, ttl),
		about:    cache.NewLoader[model.AboutContent](backend, ttl),
		success:  cache.NewLoader[[]model.SuccessStory](backend, ttl),
	}
}

// Courses returns the courses offered to visitors: active ones and those
// without a status yet.
func (c *Catalog) Courses(ctx context.Context) ([]model.Course, error) {
	return c.courses.Load(ctx, keyCourses, func(ctx context.Context) ([]model.Course, error) {
		all, err := c.api.ListCourses(ctx, nil)
		if err != nil {
			return nil, err
		}
		return PublicCourses(all), nil
	})
}

// FeaturedCourses returns the courses promoted on the home page.
func (c *Catalog) FeaturedCourses(ctx context.Context) ([]model.Course, error) {
	return c.courses.Load(ctx, keyFeaturedCourses, func(ctx context.Context) ([]model.Course, error) {
		return c.api.FeaturedCourses(ctx)
	})
}

// Blogs returns all published posts.
func (c *Catalog) Blogs(ctx context.Context) ([]model.BlogPost, error) {
	return c.blogs.Load(ctx, keyBlogs, func(ctx context.Context) ([]model.BlogPost, error) {
		return c.api.ListBlogs(ctx, nil, apiclient.BlogFilter{Status: model.BlogStatusPublished})
	})
}

// Notifications returns the posts flagged as notices.
func (c *Catalog) Notifications(ctx context.Context) ([]model.BlogPost, error) {
	return c.blogs.Load(ctx, keyNotifications, func(ctx context.Context) ([]model.BlogPost, error) {
		return c.api.Notifications(ctx)
	})
}

// TrendingTopics returns the most used tags.
func (c *Catalog) TrendingTopics(ctx context.Context) ([]model.TrendingTopic, error) {
	return c.trending.Load(ctx, keyTrending, func(ctx context.Context) ([]model.TrendingTopic, error) {
		return c.api.TrendingTopics(ctx)
	})
}

// About returns the about document.
func (c *Catalog) About(ctx context.Context) (model.AboutContent, error) {
	return c.about.Load(ctx, keyAbout, func(ctx context.Context) (model.AboutContent, error) {
		a, err := c.api.GetAbout(ctx)
		if err != nil {
			return model.AboutContent{}, err
		}
		return *a, nil
	})
}

// Success returns all success stories.
func (c *Catalog) Success(ctx context.Context) ([]model.SuccessStory, error) {
	return c.success.Load(ctx, keySuccess, func(ctx context.Context) ([]model.SuccessStory, error) {
		return c.api.ListSuccess(ctx)
	})
}

// FeaturedSuccess returns the stories shown on the home page.
func (c *Catalog) FeaturedSuccess(ctx context.Context) ([]model.SuccessStory, error) {
	return c.success.Load(ctx, keyFeaturedSuccess, func(ctx context.Context) ([]model.SuccessStory, error) {
		return c.api.FeaturedSuccess(ctx)
	})
}

// InvalidateCourses drops every cached course list.
func (c *Catalog) InvalidateCourses(ctx context.Context) {
	c.cache.Invalidate(ctx, nil, prefixCourses)
}

// InvalidateBlogs drops every cached post list.
func (c *Catalog) InvalidateBlogs(ctx context.Context) {
	c.cache.Invalidate(ctx, nil, prefixBlogs)
}

// InvalidateAbout drops the cached about document.
func (c *Catalog) InvalidateAbout(ctx context.Context) {
	c.cache.Invalidate(ctx, []string{keyAbout})
}

// InvalidateSuccess drops every cached story list.
func (c *Catalog) InvalidateSuccess(ctx context.Context) {
	c.cache.Invalidate(ctx, nil, prefixSuccess)
}

// Refresh drops and reloads every public read. It keeps going after a
// failure and returns all failures joined.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.cache.Invalidate(ctx, []string{keyAbout}, prefixCourses, prefixBlogs, prefixSuccess)

	loaders := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"courses", func(ctx context.Context) error { _, err := c.Courses(ctx); return err }},
		{"featured courses", func(ctx context.Context) error { _, err := c.FeaturedCourses(ctx); return err }},
		{"blogs", func(ctx context.Context) error { _, err := c.Blogs(ctx); return err }},
		{"notifications", func(ctx context.Context) error { _, err := c.Notifications(ctx); return err }},
		{"trending", func(ctx context.Context) error { _, err := c.TrendingTopics(ctx); return err }},
		{"about", func(ctx context.Context) error { _, err := c.About(ctx); return err }},
		{"success", func(ctx context.Context) error { _, err := c.Success(ctx); return err }},
		{"featured success", func(ctx context.Context) error { _, err := c.FeaturedSuccess(ctx); return err }},
	}

	var errs []error
	for _, l := range loaders {
		if err := l.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.name, err))
		}
	}
	if len(errs) > 0 {
		slog.Warn("cache refresh incomplete", "category", model.EventCategoryCache, "failed", len(errs))
		return errors.Join(errs...)
	}
	slog.Debug("cache refreshed")
	return nil
}

// PublicCourses keeps the courses visitors may see.
func PublicCourses(courses []model.Course) []model.Course {
	return slices.DeleteFunc(slices.Clone(courses), func(c model.Course) bool {
		return c.Status != "" && c.Status != model.CourseStatusActive
	})
}
