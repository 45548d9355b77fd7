package directory

import (
	"context"
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"github.com/contractpro/contractpro/internal/config"
)

const userFilter = "(&(objectClass=user)(objectCategory=person))"

type ldapDirectory struct {
	cfg config.DirectoryConfig
}

func (d *ldapDirectory) connect() (*ldap.Conn, error) {
	conn, err := ldap.DialURL(d.cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("dial ldap: %w", err)
	}
	return conn, nil
}

func (d *ldapDirectory) Users(_ context.Context) ([]Entry, error) {
	conn, err := d.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.Bind(d.cfg.BindUser, d.cfg.BindPassword); err != nil {
		return nil, fmt.Errorf("ldap bind: %w", err)
	}

	req := ldap.NewSearchRequest(
		d.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		userFilter,
		[]string{"sAMAccountName", "mail", "displayName", "department", "title", "manager", "employeeID"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("ldap search: %w", err)
	}

	entries := make([]Entry, 0, len(res.Entries))
	for _, e := range res.Entries {
		entries = append(entries, Entry{
			Username:        e.GetAttributeValue("sAMAccountName"),
			Email:           e.GetAttributeValue("mail"),
			FullName:        e.GetAttributeValue("displayName"),
			Department:      e.GetAttributeValue("department"),
			Designation:     e.GetAttributeValue("title"),
			EmployeeID:      e.GetAttributeValue("employeeID"),
			ManagerUsername: e.GetAttributeValue("manager"),
		})
	}
	return entries, nil
}

// Authenticate attempts a direct bind as DOMAIN\username.
func (d *ldapDirectory) Authenticate(_ context.Context, username, password string) (bool, error) {
	conn, err := d.connect()
	if err != nil {
		return false, err
	}
	defer conn.Close()

	userDN := fmt.Sprintf("%s\\%s", d.cfg.Domain, username)
	if err := conn.Bind(userDN, password); err != nil {
		return false, nil
	}
	return true, nil
}
