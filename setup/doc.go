// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package setup bootstraps an empty database on first run.

Registration is invitation-gated and invitations can only be created
by admins, so a fresh deployment needs a way in. When the setup flags
are present, main calls Run after the schema is created:

	marketrank -d app.db -setup-admin-email admin@example.com \
		-setup-admin-password changeme123 -setup-invitations 10

Run ensures the admin exists (promoting an existing user with that
email if necessary) and, when the admin was newly created, mints the
requested batch of invitations and logs their codes. The operation is
idempotent: restarting with the same flags touches nothing.
*/
package setup
