package runner

import (
	"os/user"
	"strconv"
	"syscall"
)

// resolveCredential resolves a username to the syscall.Credential needed to
// switch a spawned child to that user's uid and primary gid.
func resolveCredential(username string) (*syscall.Credential, error) {
	if username == "" {
		return nil, nil
	}

	u, err := user.Lookup(username)
	if err != nil {
		return nil, &UnknownUserError{User: username, Err: err}
	}

	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return nil, &UnknownUserError{User: username, Err: err}
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return nil, &UnknownUserError{User: username, Err: err}
	}

	return &syscall.Credential{
		Uid: uint32(uid),
		Gid: uint32(gid),
	}, nil
}
