// Package helper provides test fixtures and observability spies shared by the test suites.
package helper
