// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Public routes.
const (
	RouteRoot        = "/"
	RouteSignIn      = "/signin"
	RouteSignUp      = "/signup"
	RouteLogout      = "/logout"
	RouteVerifyEmail = "/verify-email"
	RouteProfile     = "/profile"
	RouteSaved       = "/saved"
	RouteCourses     = "/courses"
	RouteBlog        = "/blog"
	RouteAbout       = "/about"
	RouteServices    = "/xizmatlar"
	RouteSuccess     = "/success"
	RouteInquiries   = "/inquiries"
	RouteSubscribe   = "/subscribe"
	RouteNotices     = "/notices"
)

// Admin routes live below RouteAdmin; the editors reuse the public section
// names where one exists.
const (
	RouteAdmin  = "/admin"
	RouteBlogs  = "/blogs"
	RouteEvents = "/events"
	RouteCache  = "/cache"
	RouteJobs   = "/jobs"
)

// Pieces of the editor routes: RouteAdmin + section + RouteParamID + suffix.
const (
	RouteParamID      = "/{id}"
	RouteSuffixNew    = "/new"
	RouteSuffixEdit   = "/edit"
	RouteSuffixDelete = "/delete"
	RouteSuffixStatus = "/status"
)

const (
	redirectAdmin          = RouteAdmin
	redirectAdminCourses   = RouteAdmin + RouteCourses
	redirectAdminBlogs     = RouteAdmin + RouteBlogs
	redirectAdminSuccess   = RouteAdmin + RouteSuccess
	redirectAdminAbout     = RouteAdmin + RouteAbout
	redirectAdminInquiries = RouteAdmin + RouteInquiries
	redirectAdminEvents    = RouteAdmin + RouteEvents
	redirectProfile        = RouteProfile
	redirectSaved          = RouteSaved
	redirectSignIn         = RouteSignIn
)

// sessionKeyDismissed holds the ids of the notices a visitor closed.
const sessionKeyDismissed = "dismissed_notices"
