package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// Client wraps a Firestore connection for one project. Entry points build
// it once from config and hand it to every component; there is no hidden
// global registry.
type Client struct {
	fs *firestore.Client
}

// New connects to a Firestore project using a service account key file.
func New(ctx context.Context, projectID, credentialsFile string) (*Client, error) {
	fs, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore project %q: %w", projectID, err)
	}
	return &Client{fs: fs}, nil
}

func (c *Client) Close() error { return c.fs.Close() }

// Firestore exposes the underlying client for query building.
func (c *Client) Firestore() *firestore.Client { return c.fs }

func (c *Client) Courses() *firestore.CollectionRef    { return c.fs.Collection(CollCourses) }
func (c *Client) Lecturers() *firestore.CollectionRef  { return c.fs.Collection(CollLecturers) }
func (c *Client) Users() *firestore.CollectionRef      { return c.fs.Collection(CollUsers) }
func (c *Client) FileHashes() *firestore.CollectionRef { return c.fs.Collection(CollFileHashes) }
func (c *Client) Duplicates() *firestore.CollectionRef { return c.fs.Collection(CollDuplicates) }

// Papers returns the paper subcollection for one course and category.
func (c *Client) Papers(courseID, category string) *firestore.CollectionRef {
	return c.Courses().Doc(courseID).Collection(category)
}

// PaperRef returns the document reference for one paper.
func (c *Client) PaperRef(courseID, category, paperID string) *firestore.DocumentRef {
	return c.Papers(courseID, category).Doc(paperID)
}
